package dietapp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/service"
)

var (
	analyzeImage    string
	analyzeText     string
	analyzeDate     string
	analyzeCategory string
	analyzeSave     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate nutrition for a meal from a photo or description",
	Long:  "Sends a meal photo or free-text description to the model and prints the proposed nutrition values. With --save the proposal is committed as a meal record.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (analyzeImage == "") == (analyzeText == "") {
			return fmt.Errorf("exactly one of --image or --text is required")
		}

		cfg := config.Load()
		var (
			analyzer service.Analyzer
			proposal *service.MealProposal
		)
		if analyzeImage != "" {
			gen, err := newVisionGenerator(cfg)
			if err != nil {
				return err
			}
			analyzer.Gen = gen
			data, err := os.ReadFile(analyzeImage)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			proposal, err = analyzer.AnalyzeImage(cmd.Context(), data)
			if err != nil {
				return err
			}
		} else {
			gen, err := newTextGenerator(cfg)
			if err != nil {
				return err
			}
			analyzer.Gen = gen
			proposal, err = analyzer.AnalyzeText(cmd.Context(), analyzeText)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Food: %s\n", proposal.FoodName)
		fmt.Fprintf(out, "Calories: %.0f kcal\n", proposal.Calories)
		n := proposal.ToNutrients()
		fmt.Fprintf(out, "Protein: %s g  Carbs: %s g  Fat: %s g\n",
			formatMeasure(n.Protein), formatMeasure(n.Carbohydrates), formatMeasure(n.Fat))
		fmt.Fprintf(out, "Vitamin D: %s µg  Salt: %s g  Zinc: %s mg  Folic acid: %s µg\n",
			formatMeasure(n.VitaminD), formatMeasure(n.Salt), formatMeasure(n.Zinc), formatMeasure(n.FolicAcid))

		if !analyzeSave {
			return nil
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateMeal(sqldb, service.CreateMealInput{
				Date:      analyzeDate,
				Category:  analyzeCategory,
				Label:     proposal.FoodName,
				Nutrients: n,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved as record %d\n", id)
			return nil
		})
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeImage, "image", "", "Path to a meal photo (JPEG)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Free-text meal description")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "Date to save under (YYYY-MM-DD, default today)")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "dinner", "Category to save under")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the proposal as a meal record")
	rootCmd.AddCommand(analyzeCmd)
}
