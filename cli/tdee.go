package cli

import (
	"fmt"

	"clementus360/simpliday/types"

	"github.com/spf13/cobra"
)

var (
	tdeeGender   string
	tdeeAge      int
	tdeeHeight   float64
	tdeeWeight   float64
	tdeeActivity string
)

var tdeeCmd = &cobra.Command{
	Use:   "tdee",
	Short: "Compute BMR (Mifflin-St Jeor) and TDEE",
	RunE: func(cmd *cobra.Command, args []string) error {
		level := types.ActivityLevel(tdeeActivity)
		patch := types.ProfilePatch{
			Gender:        &tdeeGender,
			Age:           &tdeeAge,
			HeightCM:      &tdeeHeight,
			WeightKG:      &tdeeWeight,
			ActivityLevel: &level,
		}
		if err := patch.Validate(); err != nil {
			return err
		}

		bmr, err := types.BMR(tdeeGender, tdeeAge, tdeeHeight, tdeeWeight)
		if err != nil {
			return err
		}
		tdee, err := types.ComputeTDEE(tdeeGender, tdeeAge, tdeeHeight, tdeeWeight, level)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "BMR: %.2f kcal\n", bmr)
		fmt.Fprintf(cmd.OutOrStdout(), "TDEE: %d kcal (%s)\n", tdee, level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tdeeCmd)
	tdeeCmd.Flags().StringVar(&tdeeGender, "gender", "", "male or female")
	tdeeCmd.Flags().IntVar(&tdeeAge, "age", 0, "Age in years")
	tdeeCmd.Flags().Float64Var(&tdeeHeight, "height", 0, "Height in cm")
	tdeeCmd.Flags().Float64Var(&tdeeWeight, "weight", 0, "Weight in kg")
	tdeeCmd.Flags().StringVar(&tdeeActivity, "activity", string(types.ActivitySedentary), "sedentary|light|moderate|active")
}
