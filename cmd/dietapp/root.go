package dietapp

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koga-04/diet-app/internal/logger"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "dietapp",
	Short: "dietapp tracks meals, supplements, and exercise from your terminal",
	Long:  "dietapp is a local-first diet and exercise tracker with LLM-backed meal analysis, natural-language questions over your history, and dietary advice.",
}

func Execute() {
	logger.Init()
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
