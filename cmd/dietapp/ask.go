package dietapp

import (
	"database/sql"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/service"
)

var askRaw bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a natural-language question about your records",
	Long:  "Translates the question into a read-only query over your history and prints the result. With --raw the model proposes SQL that runs through the sandbox validator instead of the declarative plan executor.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		p, err := newPlanner(config.Load())
		if err != nil {
			return err
		}
		asker := &service.Asker{Planner: p}

		mode := service.ModeDeclarative
		if askRaw {
			mode = service.ModeRaw
		}
		return withDB(func(sqldb *sql.DB) error {
			res, err := asker.Ask(cmd.Context(), sqldb, question, mode)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

func init() {
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Use the raw SQL path instead of the declarative plan executor")
	rootCmd.AddCommand(askCmd)
}
