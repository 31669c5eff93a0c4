package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/eth-relay/internal/api/httperrors"
	"github/chapool/eth-relay/internal/util"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	idempotencyResponsePrefix = "idempotency:response:"
	idempotencyLockPrefix     = "idempotency:lock:"

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig configures the Idempotency-Key guard.
type IdempotencyConfig struct {
	Redis *redis.Client
	// TTL is how long a cached response is replayed.
	TTL time.Duration
	// LockTimeout bounds how long a crashed request can block its key.
	LockTimeout time.Duration
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type captureResponseWriter struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (w *captureResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Idempotency replays the first successful response for a repeated Idempotency-Key and
// rejects a repeated key with 409 while the first request is still running. Failures after
// the transaction was broadcast are replayed as well.
// Requests without the header pass through untouched.
func Idempotency(config IdempotencyConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return next(c)
			}

			if len(key) > maxIdempotencyKeyLength {
				return httperrors.NewHTTPErrorWithCode(http.StatusBadRequest, "Idempotency-Key is too long", "INVALID_IDEMPOTENCY_KEY")
			}

			ctx := c.Request().Context()
			log := util.LogFromContext(ctx).With().Str("idempotency_key", key).Logger()

			scope := c.Request().Method + " " + c.Path() + " " + key
			responseKey := idempotencyResponsePrefix + scope
			lockKey := idempotencyLockPrefix + scope

			cached, err := lookupResponse(ctx, config.Redis, responseKey)
			if err != nil {
				log.Error().Err(err).Msg("Failed to look up cached response")
				return httperrors.NewHTTPErrorWithCode(http.StatusInternalServerError, "Idempotency store unavailable", "IDEMPOTENCY_STORE_ERROR").WithInternal(err)
			}
			if cached != nil {
				log.Info().Int("status", cached.Status).Msg("Replaying cached response")
				c.Response().Header().Set(HeaderIdempotencyHit, "true")
				return c.Blob(cached.Status, cached.ContentType, cached.Body)
			}

			owner, err := util.RequestIDFromContext(ctx)
			if err != nil {
				owner = "in-progress"
			}

			acquired, err := config.Redis.SetNX(ctx, lockKey, owner, config.LockTimeout).Result()
			if err != nil {
				log.Error().Err(err).Msg("Failed to acquire idempotency lock")
				return httperrors.NewHTTPErrorWithCode(http.StatusInternalServerError, "Idempotency store unavailable", "IDEMPOTENCY_STORE_ERROR").WithInternal(err)
			}
			if !acquired {
				log.Info().Msg("Request with the same idempotency key is still in progress")
				return httperrors.NewHTTPErrorWithCode(http.StatusConflict, "A request with this Idempotency-Key is already being processed", "IDEMPOTENCY_KEY_IN_USE")
			}

			// the transfer may outlive a cancelled request context, the lock must not
			defer func() {
				if err := config.Redis.Del(context.Background(), lockKey).Err(); err != nil {
					log.Error().Err(err).Msg("Failed to release idempotency lock")
				}
			}()

			c.SetRequest(c.Request().WithContext(context.WithValue(ctx, util.CTXKeyIdempotencyKey, key)))

			res := c.Response()
			writer := &captureResponseWriter{ResponseWriter: res.Writer}
			res.Writer = writer

			if err := next(c); err != nil {
				if !broadcastFailure(err) {
					// errors are rendered by the error handler and never cached
					return err
				}

				// the transfer reached the chain, a retry must not send it again
				c.Error(err)
			} else if res.Status < http.StatusOK || res.Status >= http.StatusMultipleChoices {
				return nil
			}

			if err := storeResponse(config.Redis, responseKey, &cachedResponse{
				Status:      res.Status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        writer.body.Bytes(),
			}, config.TTL); err != nil {
				log.Error().Err(err).Msg("Failed to cache response")
			}

			return nil
		}
	}
}

// broadcastFailure reports whether err carries the hash of a transaction that was sent.
func broadcastFailure(err error) bool {
	var httpErr *httperrors.HTTPError
	return errors.As(err, &httpErr) && httpErr.TxHash != ""
}

func lookupResponse(ctx context.Context, rdb *redis.Client, key string) (*cachedResponse, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cached response")
	}

	var cached cachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached response")
	}

	return &cached, nil
}

func storeResponse(rdb *redis.Client, key string, res *cachedResponse, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to encode response")
	}

	if err := rdb.Set(context.Background(), key, raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store response")
	}

	return nil
}
