package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/metrics"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/util"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	// Transfer groups every route that submits a transfer, the idempotency guard is attached here.
	Transfer *echo.Group
}

// Pinger is implemented by wallets that can check their node connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	// optional, nil unless REDIS_ADDR is configured
	Redis *redis.Client `wire:"-"`

	Config  config.Server
	Clock   time2.Clock
	Metrics *metrics.Service
	Wallet  relay.Wallet
	Relay   *relay.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	clock time2.Clock,
	metrics *metrics.Service,
	wallet relay.Wallet,
	relayService *relay.Service,
	rdb *redis.Client,
) *Server {
	return &Server{
		Config:  cfg,
		Clock:   clock,
		Metrics: metrics,
		Wallet:  wallet,
		Relay:   relayService,
		Redis:   rdb,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

// Probe checks the external dependencies the relay needs to serve a transfer.
func (s *Server) Probe(ctx context.Context) error {
	if !s.Ready() {
		return errors.New("server is not fully initialized")
	}

	if pinger, ok := s.Wallet.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("wallet node is unreachable: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("idempotency store is unreachable: %w", err)
		}
	}

	return nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Redis != nil {
		log.Debug().Msg("Closing idempotency store connection")

		if err := s.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			log.Error().Err(err).Msg("Failed to close idempotency store connection")
			errs = append(errs, err)
		}
	}

	return errs
}
