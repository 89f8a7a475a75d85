package dietapp

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/service"
)

var supplementCmd = &cobra.Command{
	Use:   "supplement",
	Short: "Log supplements from fixed presets",
}

var supplementDate string

var supplementLogCmd = &cobra.Command{
	Use:   "log <preset>",
	Short: "Log one supplement preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.LogSupplement(sqldb, supplementDate, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged supplement, record %d\n", id)
			return nil
		})
	},
}

var supplementPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available supplement presets",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "KEY\tLABEL")
		for _, p := range service.SupplementPresets() {
			fmt.Fprintf(out, "%s\t%s\n", p.Key, p.Label)
		}
	},
}

func init() {
	supplementLogCmd.Flags().StringVar(&supplementDate, "date", "", "Date (YYYY-MM-DD, default today)")
	supplementCmd.AddCommand(supplementLogCmd, supplementPresetsCmd)
	rootCmd.AddCommand(supplementCmd)
}
