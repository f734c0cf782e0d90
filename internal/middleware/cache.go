package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coworking-space/internal/config"
	"github.com/iliyamo/coworking-space/internal/logging"
)

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// groupPrefix is the key namespace of one cached resource family.
func groupPrefix(cfg config.CacheConfig, group string) string {
	return cfg.Prefix + ":" + group
}

// cacheKeyFrom builds <prefix>:<group>:<sha1 of the parts picked by the
// key strategy>. The concrete request path is used so /api/espaces/1 and
// /api/espaces/2 never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, group string, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", r.URL.Path}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", r.URL.Path, "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", groupPrefix(cfg, group), sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache serves cached 200 responses of the configured methods for
// one resource group and stores misses. Headers are replayed so clients
// see the original Content-Type.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, group string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, group, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				logging.FromContext(ctx).Warn("cache store failed", "key", key, "err", err)
			}
			return nil
		}
	}
}

// PurgeOnWrite drops every cached entry of the groups after a successful
// (2xx) non-GET request, so catalogue edits are visible immediately.
func PurgeOnWrite(cfg config.CacheConfig, rdb *redis.Client, groups ...string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if c.Request().Method == http.MethodGet || err != nil {
				return err
			}
			if s := c.Response().Status; s < 200 || s > 299 {
				return nil
			}
			ctx := context.WithoutCancel(c.Request().Context())
			for _, g := range groups {
				if perr := purgeGroup(ctx, rdb, groupPrefix(cfg, g)); perr != nil {
					logging.FromContext(ctx).Warn("cache purge failed", "group", g, "err", perr)
				}
			}
			return nil
		}
	}
}

func purgeGroup(ctx context.Context, rdb *redis.Client, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
