package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/verdeviva/plantcare/internal/app"
	"github.com/verdeviva/plantcare/internal/app/httpapi"
	"github.com/verdeviva/plantcare/internal/app/storage/postgres"
	"github.com/verdeviva/plantcare/internal/config"
	"github.com/verdeviva/plantcare/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// A missing .env file is fine; env vars may come from the environment.
	_ = godotenv.Load()

	cfg := config.LoadOrDefault(*configPath)
	log := logger.New(cfg.Logging)
	log.Infof("starting plantcare server")

	stores := app.Stores{}
	if cfg.Database.Driver == "postgres" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.WithError(err).Errorf("open database")
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.WithError(err).Errorf("ping database")
			os.Exit(1)
		}
		pg := postgres.New(db)
		stores = app.Stores{Plants: pg, Cares: pg, Users: pg}
		log.Infof("using postgres storage")
	} else {
		log.Infof("using in-memory storage")
	}

	application := app.New(cfg, stores, log)

	sessions := httpapi.NewSessions(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute, log)
	handler := httpapi.NewHandler(application, sessions)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Infof("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Errorf("server error")
			os.Exit(1)
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Infof("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warnf("graceful shutdown failed")
		}
	}
	log.Infof("server stopped")
}
