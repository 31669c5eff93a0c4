package command

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/config"
)

const shutdownTimeout = 30 * time.Second

// InitFunc builds the server a command runs against. The cleanup may be nil.
type InitFunc func(cfg config.Server) (*api.Server, func(), error)

// NewSubcommandGroup returns a command that only groups subcommands and prints its help
// when run on its own.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: use + " related subcommands",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(cfg config.LoggerServer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = "15:04:05"
		}))
	}

	if cfg.LogCaller {
		log.Logger = log.With().Caller().Logger()
	}
}

// WithServer initializes a server from cfg, runs f and shuts the server down again.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	return WithServerFromInit(ctx, cfg, api.InitNewServer, f)
}

// WithServerFromInit is WithServer with a custom server initializer.
func WithServerFromInit(ctx context.Context, cfg config.Server, initFn InitFunc, f func(ctx context.Context, s *api.Server) error) error {
	SetupLogger(cfg.Logger)

	s, cleanup, err := initFn(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("errs", errs).Msg("Failed to gracefully shut down server")
		}

		if cleanup != nil {
			cleanup()
		}
	}()

	return f(ctx, s)
}
