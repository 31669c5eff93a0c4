package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/router"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/util"
	"github/chapool/eth-relay/internal/util/command"
)

const configFlag = "config"

type Flags struct {
	ConfigFile string
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the relay server

Configuration is read from ENV. A config file (yaml, json, toml or dotenv) passed with
--config fills in every variable that is not already set in the environment.`,
		Run: func(_ *cobra.Command, _ []string) {
			runServer(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigFile, configFlag, "c", "", "Path to a config file, ENV takes precedence")

	return cmd
}

func runServer(flags Flags) {
	if flags.ConfigFile != "" {
		if err := config.ApplyConfigFile(flags.ConfigFile, false, util.SetEnv, os.LookupEnv); err != nil {
			log.Fatal().Err(err).Str("path", flags.ConfigFile).Msg("Failed to apply config file")
		}
	}

	cfg := config.DefaultServiceConfigFromEnv()
	command.SetupLogger(cfg.Logger)

	if err := promptKeystorePassword(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to unlock keystore")
	}

	s, cleanup, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer cleanup()

	router.Init(s)

	go func() {
		log.Info().
			Str("listen_address", cfg.Echo.ListenAddress).
			Str("wallet", s.Wallet.Address().Hex()).
			Bool("idempotency_guard", s.Redis != nil).
			Msg("Starting server")

		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownTimeout := cfg.ShutdownTimeout()
	log.Info().Dur("timeout", shutdownTimeout).Msg("Waiting for in-flight transfers before shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		cleanup()
		log.Fatal().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}

	log.Info().Msg("Server shut down")
}
