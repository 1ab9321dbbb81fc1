package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Chaitanyateke/MovieBooking/internal/config"
)

// bodyCapture tees the response body into a buffer, up to limit bytes,
// while still writing through to the client. An oversized body marks the
// capture as spilled so it is never cached truncated.
type bodyCapture struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	limit   int
	spilled bool
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if !w.spilled {
		if w.buf.Len()+len(b) > w.limit {
			w.spilled = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// NewCatalogCache caches successful GET responses in Redis for the short
// configured TTL. It is applied only to the catalog listing routes; the
// seat availability endpoint must never sit behind it, since a cached
// projection would hide committed bookings from the next reader.
func NewCatalogCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && !cw.spilled && cw.buf.Len() > 0 {
				// Store in the background; a failed write only costs the
				// next request a cache miss.
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}

func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(c.Path() + "|" + r.URL.RawQuery + "|" + c.Param("movieId")))
	return fmt.Sprintf("%s:%x", prefix, sum)
}
