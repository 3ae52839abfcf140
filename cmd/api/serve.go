package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"traintrace/internal/auth"
	"traintrace/internal/config"
	"traintrace/internal/httpserver"
	"traintrace/internal/logger"
	"traintrace/internal/metrics"
	"traintrace/internal/services/certificate"
	"traintrace/internal/services/roster"
	"traintrace/internal/services/trainees"
	"traintrace/internal/services/verification"
	"traintrace/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DatabaseURL, lg)
	if err != nil {
		return err
	}
	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	repo := store.New(db)
	cookies := auth.CookieOptions{Secure: cfg.IsProduction()}
	var codec auth.Codec
	switch cfg.SessionMode {
	case config.SessionModeStore:
		codec = auth.NewStoreCodec(store.NewSessionStore(db), cookies)
	default:
		codec = auth.NewTokenCodec(cfg.SessionSecret, cookies)
	}
	if cfg.AuthUsername == "" {
		lg.Warnw("no admin credentials configured; every login will be rejected")
	}

	m := metrics.New()
	issuer := certificate.NewIssuer(cfg.Protocol(), cfg.PublicDomain())
	router := httpserver.NewRouter(httpserver.Deps{
		Store: repo,
		Codec: codec,
		Credentials: auth.NewVerifier(auth.Credentials{
			Username:     cfg.AuthUsername,
			Password:     cfg.AuthPassword,
			PasswordHash: cfg.AuthPasswordHash,
		}),
		Trainees:       trainees.NewService(repo, issuer, m),
		Roster:         roster.NewImporter(repo, m),
		Verifier:       verification.NewVerifier(repo, m),
		Metrics:        m,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         lg,
	})

	lg.Infow("listening", "port", cfg.HTTPPort, "env", cfg.Env, "session_mode", cfg.SessionMode, "domain", cfg.PublicDomain())
	if err := httpserver.NewServer(":"+cfg.HTTPPort, router).Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	lg.Infow("shut down")
	return nil
}
