package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderReplay    = "Ax-Idempotent-Replay"
)

type IdempotencyConfig struct {
	// TTL of a recorded response.
	TTL time.Duration
	// Lifetime of the pending marker if the handler never finishes.
	LockTTL time.Duration
	// Allowed client/server clock difference for Ax-Request-At.
	MaxClockSkew time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

func (c IdempotencyConfig) withDefaults() IdempotencyConfig {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 60 * time.Second
	}
	if c.MaxClockSkew <= 0 {
		c.MaxClockSkew = 10 * time.Minute
	}
	if c.Now == nil {
		c.Now = nowUTC
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// captureWriter tees the response so it can be recorded.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// Idempotency makes mutating requests safe to retry: the first request with
// a given Ax-Request-Id runs, later ones with the same id and body get the
// recorded response, and ones with a different body or arriving while the
// first is still running get 409. Keys are scoped by method, URL path and
// caller, so it must run after Identity. 5xx responses are not recorded.
func Idempotency(rdb redis.Cmdable, cfg IdempotencyConfig) echo.MiddlewareFunc {
	cfg = cfg.withDefaults()
	st := store{rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			now := cfg.Now()
			reqID, reqAt, msg := readRequestHeaders(req.Header, now, cfg.MaxClockSkew)
			if msg != "" {
				return jsonError(c, http.StatusBadRequest, msg)
			}
			caller := CallerID(c)
			if caller == "" {
				return jsonError(c, http.StatusUnauthorized, "missing "+HeaderBorrowerID)
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)
			key := buildKey(req.Method, req.URL.Path, caller, reqID)

			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			claimed, err := st.claim(ctx, key, entry{
				Pending:     true,
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			}, cfg.LockTTL)
			if err != nil {
				cfg.Logger.Error("idempotency: store unavailable", "key", key, "err", err)
				return jsonError(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !claimed {
				prev, err := st.load(ctx, key)
				if err != nil {
					cfg.Logger.Warn("idempotency: load entry", "key", key, "err", err)
				}
				switch {
				case prev.BodySHA256 != "" && prev.BodySHA256 != hash:
					return jsonError(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				case prev.replayable():
					c.Response().Header().Set(HeaderReplay, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				}
				return jsonError(c, http.StatusConflict, "request is already in progress")
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the handler has answered; the request context may be gone
			bg := context.WithoutCancel(req.Context())
			if w.status >= http.StatusInternalServerError {
				if err := st.release(bg, key); err != nil {
					cfg.Logger.Warn("idempotency: release", "key", key, "err", err)
				}
				return nil
			}
			if err := st.finish(bg, key, entry{
				Status:      w.status,
				Body:        w.buf.Bytes(),
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   cfg.Now(),
			}, cfg.TTL); err != nil {
				cfg.Logger.Warn("idempotency: save response", "key", key, "err", err)
			}
			return nil
		}
	}
}

// readRequestHeaders validates Ax-Request-Id and Ax-Request-At; msg is
// non-empty when the request must be rejected.
func readRequestHeaders(h http.Header, now time.Time, skew time.Duration) (reqID string, at time.Time, msg string) {
	reqID = strings.TrimSpace(h.Get(HeaderRequestID))
	if reqID == "" {
		return "", at, "missing " + HeaderRequestID
	}
	if !validReqID(reqID) {
		return "", at, "invalid " + HeaderRequestID + " format"
	}
	at, err := parseAxRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return "", at, err.Error()
	}
	if at.Before(now.Add(-skew)) || at.After(now.Add(skew)) {
		return "", at, HeaderRequestAt + " too skewed"
	}
	return reqID, at, ""
}
