package dietapp

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/model"
	"github.com/koga-04/diet-app/internal/service"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage meal records",
}

var (
	mealDate     string
	mealCategory string
	mealLabel    string
	mealCalories float64
	mealProtein  float64
	mealCarbs    float64
	mealFat      float64
	mealVitaminD float64
	mealSalt     float64
	mealZinc     float64
	mealFolic    float64
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a meal record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			in := service.CreateMealInput{
				Date:      mealDate,
				Category:  mealCategory,
				Label:     mealLabel,
				Nutrients: mealNutrientsFromFlags(cmd),
			}
			id, err := service.CreateMeal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added record %d\n", id)
			return nil
		})
	},
}

// mealNutrientsFromFlags keeps the recorded/not-recorded distinction: only
// flags the user actually set become non-nil measures.
func mealNutrientsFromFlags(cmd *cobra.Command) model.Nutrients {
	var n model.Nutrients
	set := func(name string, value float64, dst **float64) {
		if cmd.Flags().Changed(name) {
			*dst = model.Float(value)
		}
	}
	set("calories", mealCalories, &n.Calories)
	set("protein", mealProtein, &n.Protein)
	set("carbs", mealCarbs, &n.Carbohydrates)
	set("fat", mealFat, &n.Fat)
	set("vitamin-d", mealVitaminD, &n.VitaminD)
	set("salt", mealSalt, &n.Salt)
	set("zinc", mealZinc, &n.Zinc)
	set("folic-acid", mealFolic, &n.FolicAcid)
	return n
}

var (
	mealListFrom     string
	mealListTo       string
	mealListCategory string
	mealListLimit    int
)

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meal records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMeals(sqldb, service.MealFilter{
				FromDate: mealListFrom,
				ToDate:   mealListTo,
				Category: mealListCategory,
				Limit:    mealListLimit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tDATE\tCATEGORY\tFOOD\tKCAL\tP\tC\tF\tFAV")
			for _, m := range meals {
				fav := ""
				if m.Favorite {
					fav = "*"
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					m.ID, m.Date, m.Category, m.Label,
					formatMeasure(m.Calories), formatMeasure(m.Protein),
					formatMeasure(m.Carbohydrates), formatMeasure(m.Fat), fav)
			}
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMeal(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d\n", id)
			return nil
		})
	},
}

var mealFavoriteOff bool

var mealFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark a meal record as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetMealFavorite(sqldb, id, !mealFavoriteOff); err != nil {
				return err
			}
			state := "favorite"
			if mealFavoriteOff {
				state = "not a favorite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %d is now %s\n", id, state)
			return nil
		})
	},
}

func init() {
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date (YYYY-MM-DD, default today)")
	mealAddCmd.Flags().StringVar(&mealCategory, "category", "", "Category ("+strings.Join(model.MealCategories, ", ")+")")
	mealAddCmd.Flags().StringVar(&mealLabel, "name", "", "Food name")
	mealAddCmd.Flags().Float64Var(&mealCalories, "calories", 0, "Calories (kcal)")
	mealAddCmd.Flags().Float64Var(&mealProtein, "protein", 0, "Protein (g)")
	mealAddCmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "Carbohydrates (g)")
	mealAddCmd.Flags().Float64Var(&mealFat, "fat", 0, "Fat (g)")
	mealAddCmd.Flags().Float64Var(&mealVitaminD, "vitamin-d", 0, "Vitamin D (µg)")
	mealAddCmd.Flags().Float64Var(&mealSalt, "salt", 0, "Salt (g)")
	mealAddCmd.Flags().Float64Var(&mealZinc, "zinc", 0, "Zinc (mg)")
	mealAddCmd.Flags().Float64Var(&mealFolic, "folic-acid", 0, "Folic acid (µg)")
	_ = mealAddCmd.MarkFlagRequired("category")
	_ = mealAddCmd.MarkFlagRequired("name")

	mealListCmd.Flags().StringVar(&mealListFrom, "from", "", "From date (YYYY-MM-DD)")
	mealListCmd.Flags().StringVar(&mealListTo, "to", "", "To date (YYYY-MM-DD)")
	mealListCmd.Flags().StringVar(&mealListCategory, "category", "", "Filter by category")
	mealListCmd.Flags().IntVar(&mealListLimit, "limit", 0, "Max rows (0 = no limit)")

	mealFavoriteCmd.Flags().BoolVar(&mealFavoriteOff, "off", false, "Clear the favorite mark")

	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealDeleteCmd, mealFavoriteCmd)
	rootCmd.AddCommand(mealCmd)
}
