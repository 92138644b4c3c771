package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"writers-api/internal/auth"
	"writers-api/internal/metrics"
	"writers-api/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies collects everything the HTTP layer talks to.
type Dependencies struct {
	Users    service.UserService
	Articles service.ArticleService
	Tokens   *auth.TokenService
	Signer   *auth.URLSigner
	DB       Pinger
	Metrics  *metrics.Metrics
	Logger   logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	articles service.ArticleService
	tokens   *auth.TokenService
	signer   *auth.URLSigner
	db       Pinger
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:    deps.Users,
		articles: deps.Articles,
		tokens:   deps.Tokens,
		signer:   deps.Signer,
		db:       deps.DB,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.logger), corsMiddleware())
	if h.metrics != nil {
		router.Use(metricsMiddleware(h.metrics))
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/health", h.health)

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/email/verify/:id", h.verifyEmail)
	router.GET("/view/articles", h.viewArticles)
	router.GET("/writers/all", h.allWriters)

	authed := router.Group("/")
	authed.Use(h.requireToken())
	{
		authed.GET("/email/resend", h.resendVerification)
	}

	verified := router.Group("/")
	verified.Use(h.requireToken(), h.requireVerifiedEmail())
	{
		verified.GET("/user", h.authenticatedUser)
		verified.POST("/submit_article", h.submitArticle)
		verified.PATCH("/edit_article/:id", h.editArticle)
		verified.DELETE("/delete_article/:id", h.deleteArticle)
	}
}

func (h *Handler) health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) internalError(c *gin.Context, err error, msg string) {
	h.logger.WithError(err).WithField("request_id", c.GetString(ctxRequestID)).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
