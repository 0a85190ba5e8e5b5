package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "production_advisor/docs"
	"production_advisor/internal/advisor"
	"production_advisor/internal/handlers"
	"production_advisor/internal/logger"
	"production_advisor/internal/repository"
	"production_advisor/internal/repository/db"
	"production_advisor/internal/server"
	"production_advisor/internal/service"
	"production_advisor/internal/source"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket stream and optional upstream poller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().String("port", "", "HTTP port (default 8080)")
	if err := bindFlags(v, cmd.Flags(), map[string]string{"port": "port"}); err != nil {
		panic(err)
	}
	return cmd
}

func serve(cfg appConfig) error {
	// init logger
	log := logger.Get(cfg.LogLevel)
	log.SetLevel(cfg.LogLevel)

	if cfg.Auth.SigningKey == devSigningKey {
		log.Warnw("auth.signing_key is the development default; set PA_AUTH_SIGNING_KEY in production")
	}

	// open DB
	conn, err := openDB(cfg.DBPath, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	engine, err := advisor.NewEngine(cfg.Advisor)
	if err != nil {
		return err
	}

	// wire dependencies
	deps := service.Deps{
		Engine:        engine,
		UpstreamShape: cfg.SourceShape,
		Auth:          cfg.Auth,
		Log:           log,
	}
	if cfg.Source.BaseURL != "" {
		client, err := source.NewClient(cfg.Source, log)
		if err != nil {
			return err
		}
		deps.Fetcher = client
	} else {
		log.Infow("source.base_url not set; upstream analysis and polling disabled")
	}

	repos := repository.NewRepository(conn)
	services, err := service.NewService(repos, deps)
	if err != nil {
		return err
	}
	apiHandler := handlers.NewHandler(services, log, handlers.Config{DefaultTopN: cfg.TopN})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if deps.Fetcher != nil && cfg.PollInterval > 0 {
		log.Infow("poller_started", "interval", cfg.PollInterval.String(), "shape", cfg.SourceShape)
		go services.Poller.Run(ctx, cfg.PollInterval)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	return waitForShutdown(cancel, srv, log)
}

// openDB initializes the SQLite database at path.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "advisor.db")
		path = "advisor.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_server_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
