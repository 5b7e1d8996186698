package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/admission"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/automation"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/config"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/guard"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/journal"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/lifecycle"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/orchestrator"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MesaToken extraction server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		if cfg.Admin.SigningKey == "" {
			log.Warn().Msg("admin.signing_key is empty, admin routes will reject every request")
		}

		var (
			tokens core.TokenStore
			logs   core.ExtractionLogStore
		)
		switch cfg.Storage.Type {
		case "sqlite":
			db, err := store.NewSQLite(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("opening sqlite store: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()
			tokens, logs = db, db
			log.Info().Msgf("Using sqlite storage at %s", cfg.Storage.Path)
		default:
			mem := store.NewMemory()
			tokens, logs = mem, mem
			log.Info().Msg("Using in-memory storage")
		}

		log.Info().Msgf("Initializing automation %q...", cfg.Automation.Name)
		automator, err := automation.Build(cfg.Automation)
		if err != nil {
			return fmt.Errorf("building automator: %w", err)
		}

		var jrnl journal.Journal = journal.NewNoop()
		if cfg.Journal.Enabled {
			fileJournal, err := journal.NewFile(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer func() {
				_ = fileJournal.Close()
			}()
			jrnl = fileJournal
		}

		admissionCtl := admission.New(admission.Config{
			RequestsPerMinute: cfg.Admission.RequestsPerMinute,
			Burst:             cfg.Admission.Burst,
			IdleTTL:           cfg.Admission.IdleTTL,
		})
		defer admissionCtl.Stop()

		orch := orchestrator.New(guard.New(), automator, tokens, logs, jrnl, cfg.Pool.Size)
		extraction := service.New(orch, tokens, logs, lifecycle.New(), admissionCtl, cfg.Pool.WaitTimeout)

		srv := api.NewServer(extraction)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes([]byte(cfg.Admin.SigningKey)),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides server.addr)")
}
