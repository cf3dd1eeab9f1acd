package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

// RequestIDHeader carries the sender generated id of a notification
const RequestIDHeader = "X-Request-ID"

// Deliverer delivers notifications to the operator
type Deliverer interface {
	Deliver(ctx context.Context, n *domain.Notification) error
}

// Response is the body of every /notify response
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler provides the relay HTTP API
type Handler struct {
	deliverer Deliverer
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(deliverer Deliverer, logger *zap.Logger) *Handler {
	return &Handler{
		deliverer: deliverer,
		logger:    logger.Named("api"),
	}
}

// Router builds the gin engine with all routes registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/notify", h.handleNotify)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (h *Handler) handleNotify(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)

	var n domain.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		h.logger.Warn("invalid notification body", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: "error", Message: err.Error()})
		return
	}

	h.logger.Info("notification received",
		zap.String("request_id", requestID),
		zap.Int64("user_id", n.UserID),
		zap.Int64("message_id", n.MessageID),
	)

	if err := h.deliverer.Deliver(c.Request.Context(), &n); err != nil {
		h.logger.Error("delivery failed", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: "error", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Status: "success", Message: "Notification sent"})
}
