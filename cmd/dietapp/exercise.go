package dietapp

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/service"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage exercise records",
}

var (
	exerciseDate     string
	exerciseCategory string
	exerciseLabel    string
	exerciseDuration float64
)

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an exercise record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateExercise(sqldb, service.CreateExerciseInput{
				Date:        exerciseDate,
				Category:    exerciseCategory,
				Label:       exerciseLabel,
				DurationMin: exerciseDuration,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added exercise %d\n", id)
			return nil
		})
	},
}

var (
	exerciseListFrom string
	exerciseListTo   string
)

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercise records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			records, err := service.ListExercises(sqldb, service.ExerciseFilter{
				FromDate: exerciseListFrom,
				ToDate:   exerciseListTo,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tDATE\tTYPE\tLABEL\tMIN")
			for _, e := range records {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%.0f\n",
					e.ID, e.Date, e.Category, e.Label, e.DurationMin)
			}
			return nil
		})
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exercise record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteExercise(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted exercise %d\n", id)
			return nil
		})
	},
}

func init() {
	exerciseAddCmd.Flags().StringVar(&exerciseDate, "date", "", "Date (YYYY-MM-DD, default today)")
	exerciseAddCmd.Flags().StringVar(&exerciseCategory, "type", "", "Exercise type (walking, strength, ...)")
	exerciseAddCmd.Flags().StringVar(&exerciseLabel, "name", "", "Label (defaults to the type)")
	exerciseAddCmd.Flags().Float64Var(&exerciseDuration, "minutes", 0, "Duration in minutes")
	_ = exerciseAddCmd.MarkFlagRequired("type")
	_ = exerciseAddCmd.MarkFlagRequired("minutes")

	exerciseListCmd.Flags().StringVar(&exerciseListFrom, "from", "", "From date (YYYY-MM-DD)")
	exerciseListCmd.Flags().StringVar(&exerciseListTo, "to", "", "To date (YYYY-MM-DD)")

	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
