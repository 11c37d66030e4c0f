// CLI tool to compute a daily calorie recommendation from biometrics without
// touching the database. Useful for checking numbers the API returns.
// Usage: go run ./cmd/estimate --age 30 --gender male --height 180 --weight 80 --activity moderate --goal maintain [--json]
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lg/healthoria-go-api/internal/energy"
)

// errInvalidProfile signals that field errors were already printed.
var errInvalidProfile = errors.New("invalid profile")

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidProfile) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		age, height, weight    float64
		gender, activity, goal string
		asJSON                 bool
	)

	cmd := &cobra.Command{
		Use:           "estimate",
		Short:         "Estimate daily calories from age, gender, height, weight, activity and goal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags the user did not pass stay nil so Validate reports them
			// as missing rather than as zero.
			var in energy.ProfileInput
			flags := cmd.Flags()
			if flags.Changed("age") {
				in.Age = &age
			}
			if flags.Changed("gender") {
				in.Gender = &gender
			}
			if flags.Changed("height") {
				in.HeightCM = &height
			}
			if flags.Changed("weight") {
				in.WeightKG = &weight
			}
			if flags.Changed("activity") {
				in.ActivityLevel = &activity
			}
			if flags.Changed("goal") {
				in.Goal = &goal
			}
			return runEstimate(in, asJSON, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&age, "age", 0, "age in years (18-100)")
	f.StringVar(&gender, "gender", "", "male, female or other")
	f.Float64Var(&height, "height", 0, "height in cm (100-250)")
	f.Float64Var(&weight, "weight", 0, "weight in kg (30-250)")
	f.StringVar(&activity, "activity", "", "sedentary, light, moderate, active or very_active")
	f.StringVar(&goal, "goal", "", "lose, maintain or gain")
	f.BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	return cmd
}

func runEstimate(in energy.ProfileInput, asJSON bool, stdout, stderr io.Writer) error {
	est, err := energy.Estimate(in)
	if err != nil {
		var verr *energy.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, fe := range verr.Fields {
			fmt.Fprintf(stderr, "%s: %s\n", fe.Field, fe.Message)
		}
		return errInvalidProfile
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}
	fmt.Fprintf(stdout, "BMR:            %.1f kcal/day\n", est.BMR)
	fmt.Fprintf(stdout, "TDEE:           %.1f kcal/day\n", est.TDEE)
	fmt.Fprintf(stdout, "Daily calories: %d kcal/day\n", est.DailyCalories)
	return nil
}
