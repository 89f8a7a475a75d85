package dietapp

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/service"
)

var (
	adviseFrom string
	adviseTo   string
)

var adviseCmd = &cobra.Command{
	Use:   "advise [question]",
	Short: "Get dietary advice grounded in your records",
	Long:  "With a question, answers it against your recent records. With --from/--to, reviews that period. With neither, reviews everything you have logged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		gen, err := newTextGenerator(cfg)
		if err != nil {
			return err
		}
		profile, err := loadProfile()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			out, err := service.Advise(cmd.Context(), sqldb, gen, profile, service.AdviceInput{
				Question: strings.Join(args, " "),
				FromDate: adviseFrom,
				ToDate:   adviseTo,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	adviseCmd.Flags().StringVar(&adviseFrom, "from", "", "Review period start (YYYY-MM-DD)")
	adviseCmd.Flags().StringVar(&adviseTo, "to", "", "Review period end (YYYY-MM-DD)")
	rootCmd.AddCommand(adviseCmd)
}
