package dietapp

import (
	"database/sql"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koga-04/diet-app/internal/api"
	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/logger"
	"github.com/koga-04/diet-app/internal/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		p, err := newPlanner(cfg)
		if err != nil {
			return err
		}
		textGen, err := newTextGenerator(cfg)
		if err != nil {
			return err
		}
		visionGen, err := newVisionGenerator(cfg)
		if err != nil {
			return err
		}
		profile, err := loadProfile()
		if err != nil {
			return err
		}

		sessions := service.NewSessionManager(&service.Analyzer{Gen: visionGen})

		return withDB(func(sqldb *sql.DB) error {
			srv := api.NewServer(sqldb, &service.Asker{Planner: p}, sessions, textGen, profile)
			logger.Info("listening", zap.String("addr", serveAddr))
			return http.ListenAndServe(serveAddr, srv.Router())
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
