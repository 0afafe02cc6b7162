package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/pkg/errors"
)

const idempotencyContextKey = "idempotency_info"

type idempotencyInfo struct {
	Key         string
	RequestHash string
	QuoteID     string
	IsExisting  bool
}

// IdempotencyMiddleware handles the Idempotency-Key header on mutating
// requests. A replayed key with the same payload marks the request as
// existing so the handler can return the original outcome; the same key
// with a different payload is rejected. Must run after AuthMiddleware.
func IdempotencyMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		user, ok := GetUserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		requestHash := hashRequest(c.Request.Method, c.Request.URL.Path, body)

		existing, err := repos.IdempotencyKey.GetByKey(c.Request.Context(), user.ID, key)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); !ok {
				logger.Error("Failed to look up idempotency key", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.Set(idempotencyContextKey, idempotencyInfo{Key: key, RequestHash: requestHash})
			c.Next()
			return
		}

		if existing.RequestHash != requestHash {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "idempotency key already used with a different request",
			})
			return
		}

		c.Set(idempotencyContextKey, idempotencyInfo{
			Key:         key,
			RequestHash: requestHash,
			QuoteID:     existing.QuoteID.String(),
			IsExisting:  true,
		})
		c.Next()
	}
}

// GetIdempotencyInfo returns the idempotency key, the request hash, the
// quote id recorded for a replayed key, and whether the key was seen before.
func GetIdempotencyInfo(c *gin.Context) (string, string, string, bool) {
	value, exists := c.Get(idempotencyContextKey)
	if !exists {
		return "", "", "", false
	}
	info, ok := value.(idempotencyInfo)
	if !ok {
		return "", "", "", false
	}
	return info.Key, info.RequestHash, info.QuoteID, info.IsExisting
}

func hashRequest(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
