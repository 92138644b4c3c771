package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"writers-api/internal/auth"
	"writers-api/internal/domain"
	"writers-api/internal/metrics"
	"writers-api/internal/service"
)

const (
	ctxRequestID = "requestID"
	ctxUserID    = "userID"
	ctxUser      = "user"

	headerRequestID = "X-Request-ID"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", headerRequestID)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"client_ip":  c.ClientIP(),
			"latency":    time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("http request")
			return
		}
		entry.Info("http request")
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// requireToken resolves the bearer token to a user id. The token is read from
// the Authorization header, falling back to the "token" query parameter.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.tokens.Verify(bearerToken(c))
		if err != nil {
			status, code := auth.TokenErrorCode(err)
			c.AbortWithStatusJSON(status, gin.H{"error": code})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func (h *Handler) requireVerifiedEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.users.GetByID(c.Request.Context(), c.GetInt64(ctxUserID))
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
				return
			}
			h.internalError(c, err, "load current user")
			c.Abort()
			return
		}
		if !user.HasVerifiedEmail() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Your email address is not verified."})
			return
		}
		c.Set(ctxUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
