package config

import (
	"time"

	"github.com/rs/zerolog"
	"github/chapool/eth-relay/internal/util"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	EnableCORSMiddleware           bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
	EnablePrometheusMiddleware     bool
	BodyLimit                      string
	GracefulShutdownTimeoutSeconds int
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogResponseBody    bool
	LogCaller          bool
	PrettyPrintConsole bool
}

type Management struct {
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

// Relay holds the static, process-wide business configuration of the transfer relay.
type Relay struct {
	// DefaultDestination receives transfers that name no destination.
	DefaultDestination string
	// PriceReference is the USD price of one ETH, used for fiat conversion and display only.
	PriceReference string
}

// Chain configures the backend wallet and the node(s) it talks to.
type Chain struct {
	RPCURLs []string
	// PrivateKey is the hex encoded key of the backend wallet. Never rendered.
	PrivateKey string `json:"-"`
	// KeystoreFile is an Ethereum keystore v3 file holding the backend wallet key.
	// It takes precedence over PrivateKey.
	KeystoreFile        string
	KeystorePassword    string `json:"-"`
	ChainID             int64
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
}

// Idempotency configures the optional Redis backed Idempotency-Key guard.
// The guard is disabled while RedisAddr is empty.
type Idempotency struct {
	RedisAddr     string
	RedisPassword string `json:"-"`
	RedisDB       int
	TTL           time.Duration
	LockTimeout   time.Duration
}

type Server struct {
	Echo        EchoServer
	Logger      LoggerServer
	Management  Management
	Relay       Relay
	Chain       Chain
	Idempotency Idempotency
}

// shutdownMargin covers the broadcast that precedes a confirmation wait.
const shutdownMargin = 10 * time.Second

// ShutdownTimeout is the graceful shutdown timeout, stretched so a transfer that is waiting
// for its confirmation can still answer.
func (s Server) ShutdownTimeout() time.Duration {
	timeout := time.Duration(s.Echo.GracefulShutdownTimeoutSeconds) * time.Second
	if wait := s.Chain.ReceiptTimeout + shutdownMargin; wait > timeout {
		return wait
	}

	return timeout
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process
	// global "os.Env" state (it should be applied via t.SetEnv instead).
	if !util.RunningInTest() {
		DotEnvTryLoad(util.GetEnv("SERVER_DOTENV_FILE", ".env.local"), func(k string, v string) error { return util.SetEnv(k, v) })
	}

	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":"+util.GetEnv("PORT", "8080")),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware:  util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
			EnablePrometheusMiddleware:     util.GetEnvAsBool("SERVER_ECHO_ENABLE_PROMETHEUS_MIDDLEWARE", true),
			BodyLimit:                      util.GetEnv("SERVER_ECHO_BODY_LIMIT", "64K"),
			GracefulShutdownTimeoutSeconds: util.GetEnvAsInt("SERVER_ECHO_GRACEFUL_SHUTDOWN_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.InfoLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			LogCaller:          util.GetEnvAsBool("SERVER_LOGGER_LOG_CALLER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: Management{
			ReadinessTimeout: util.GetEnvAsDuration("SERVER_MANAGEMENT_READINESS_TIMEOUT", 4*time.Second),
			LivenessTimeout:  util.GetEnvAsDuration("SERVER_MANAGEMENT_LIVENESS_TIMEOUT", 1*time.Second),
		},
		Relay: Relay{
			DefaultDestination: util.GetEnv("BACKEND_WALLET", ""),
			PriceReference:     util.GetEnv("ETH_PRICE", "0"),
		},
		Chain: Chain{
			RPCURLs:             util.GetEnvAsStringArr("ETH_RPC_URL", []string{}),
			PrivateKey:          util.GetEnv("WALLET_PRIVATE_KEY", ""),
			KeystoreFile:        util.GetEnv("WALLET_KEYSTORE_FILE", ""),
			KeystorePassword:    util.GetEnv("WALLET_KEYSTORE_PASSWORD", ""),
			ChainID:             util.GetEnvAsInt64("ETH_CHAIN_ID", 0),
			ReceiptTimeout:      util.GetEnvAsDuration("ETH_RECEIPT_TIMEOUT", 2*time.Minute),
			ReceiptPollInterval: util.GetEnvAsDuration("ETH_RECEIPT_POLL_INTERVAL", 3*time.Second),
		},
		Idempotency: Idempotency{
			RedisAddr:     util.GetEnv("REDIS_ADDR", ""),
			RedisPassword: util.GetEnv("REDIS_PASSWORD", ""),
			RedisDB:       util.GetEnvAsInt("REDIS_DB", 0),
			TTL:           util.GetEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
			LockTimeout:   util.GetEnvAsDuration("IDEMPOTENCY_LOCK_TIMEOUT", 5*time.Minute),
		},
	}
}
