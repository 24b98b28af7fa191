package http

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	cacheListPrefix = "cache:events:list:"
	cacheItemPrefix = "cache:events:item:"
)

// ResponseCache stores successful public event reads in Redis.
type ResponseCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewResponseCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *ResponseCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ResponseCache{rdb: rdb, ttl: ttl, logger: logger}
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// cacheKey returns false for requests that must not be cached.
func cacheKey(c *gin.Context) (string, bool) {
	if raw := c.Param("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s%d", cacheItemPrefix, id), true
	}
	return cacheListPrefix + sha1Hex(c.Request.URL.RawQuery), true
}

func (h *Handler) cacheResponses() gin.HandlerFunc {
	rc := h.cache
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key, ok := cacheKey(c)
		if !ok {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		if b, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
			var hit cachedResponse
			if err := json.Unmarshal(b, &hit); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(hit.Status, hit.ContentType, hit.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			rc.logger.WithError(err).Warn("response cache read")
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = bw
		c.Header("X-Cache", "MISS")
		c.Next()

		if bw.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      bw.Status(),
			ContentType: bw.Header().Get("Content-Type"),
			Body:        bw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rc.rdb.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
			rc.logger.WithError(err).Warn("response cache write")
		}
	}
}

// PurgeEvent drops every cached list and, when eventID > 0, the item for that event.
func (rc *ResponseCache) PurgeEvent(ctx context.Context, eventID int64) {
	if rc == nil {
		return
	}
	var keys []string
	iter := rc.rdb.Scan(ctx, 0, cacheListPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		rc.logger.WithError(err).Warn("response cache scan")
	}
	if eventID > 0 {
		keys = append(keys, fmt.Sprintf("%s%d", cacheItemPrefix, eventID))
	}
	if len(keys) == 0 {
		return
	}
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		rc.logger.WithError(err).Warn("response cache purge")
	}
}
