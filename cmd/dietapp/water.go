package dietapp

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/service"
)

var waterDate string

var waterCmd = &cobra.Command{
	Use:   "water <amount-ml>",
	Short: "Log water intake in milliliters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || amount <= 0 {
			return fmt.Errorf("invalid amount %q (expected positive milliliters)", args[0])
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.LogHydration(sqldb, waterDate, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d ml, record %d\n", amount, id)
			return nil
		})
	},
}

func init() {
	waterCmd.Flags().StringVar(&waterDate, "date", "", "Date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(waterCmd)
}
