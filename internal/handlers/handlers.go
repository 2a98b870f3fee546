package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/floodseg-api/internal/logging"
	"github.com/Brownie44l1/floodseg-api/internal/model"
	"github.com/Brownie44l1/floodseg-api/internal/segmentation"
)

const (
	statusOnline = "online"
	serviceName  = "Flood Segmentation API"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Segmenter runs the prediction pipeline.
type Segmenter interface {
	Predict(ctx context.Context, requestID string, req model.PredictRequest) (*model.PredictResponse, error)
}

// ModelStatus reports which models loaded at startup.
type ModelStatus interface {
	Loaded(sel model.Selector) bool
}

// Handler serves the segmentation HTTP API.
type Handler struct {
	segmenter    Segmenter
	status       ModelStatus
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewHandler creates a handler. Request bodies larger than maxBodyBytes are
// rejected.
func NewHandler(segmenter Segmenter, status ModelStatus, maxBodyBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		segmenter:    segmenter,
		status:       status,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.Named("http"),
	}
}

// RegisterRoutes wires the HTTP handlers and middleware to the Gin router.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	router.Use(RequestID(), AccessLog(h.logger), gin.CustomRecovery(h.recoverPanic), CORS())

	router.GET("/", h.Home)
	router.GET("/health", h.Health)
	router.POST("/predict", h.Predict)
}

// Home is the liveness check.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: statusOnline, Message: serviceName})
}

// Health reports whether each model loaded.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:          statusOnline,
		UNetLoaded:      h.status.Loaded(model.UNet),
		MobileNetLoaded: h.status.Loaded(model.MobileNet),
	})
}

// Predict segments the posted image.
func (h *Handler) Predict(c *gin.Context) {
	requestID := c.GetString(requestIDKey)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := h.segmenter.Predict(c.Request.Context(), requestID, req)
	if err != nil {
		h.writePredictError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) writePredictError(c *gin.Context, requestID string, err error) {
	log := logging.WithOperation(h.logger, "http.predict", requestID)

	var reqErr *segmentation.RequestError
	if errors.As(err, &reqErr) {
		log.Info("rejected prediction request", zap.String("reason", reqErr.Message))
		respondError(c, http.StatusBadRequest, reqErr.Message)
		return
	}

	var unavailable *segmentation.UnavailableError
	if errors.As(err, &unavailable) {
		log.Warn("model unavailable", zap.String("model", string(unavailable.Model)))
		respondError(c, http.StatusInternalServerError, unavailable.Error())
		return
	}

	log.Error("error in predict", zap.Error(err))
	message := err.Error()
	var opErr *logging.OperationError
	if errors.As(err, &opErr) {
		message = opErr.Cause()
	}
	respondError(c, http.StatusInternalServerError, message)
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	logging.WithOperation(h.logger, "http.recover", c.GetString(requestIDKey)).
		Error("panic while handling request", zap.Any("panic", recovered))
	respondError(c, http.StatusInternalServerError, fmt.Sprint(recovered))
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: message})
}
