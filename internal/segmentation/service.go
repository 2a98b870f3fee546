package segmentation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Brownie44l1/floodseg-api/internal/imaging"
	"github.com/Brownie44l1/floodseg-api/internal/logging"
	"github.com/Brownie44l1/floodseg-api/internal/model"
)

// Models resolves a selector to a loaded predictor.
type Models interface {
	Get(sel model.Selector) (model.Predictor, bool)
}

// Service runs the per-request segmentation pipeline.
type Service struct {
	models    Models
	size      int
	maxPixels int
	layout    imaging.Layout
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a pipeline producing size×size masks from models that
// take input in layout. Uploads decoding to more than maxPixels pixels are
// refused before their pixel data is read.
func NewService(models Models, size, maxPixels int, layout imaging.Layout, logger *zap.Logger) *Service {
	return &Service{
		models:    models,
		size:      size,
		maxPixels: maxPixels,
		layout:    layout,
		logger:    logger.Named("segmentation"),
		now:       time.Now,
	}
}

// Predict validates req, segments its image with the selected model and
// returns the encoded overlay, mask and metrics.
func (s *Service) Predict(ctx context.Context, requestID string, req model.PredictRequest) (*model.PredictResponse, error) {
	start := s.now()
	opLogger := logging.WithOperation(s.logger, "segmentation.predict", requestID)

	// An empty string counts as missing, the same as an absent key.
	if req.Image == "" || req.Model == "" {
		return nil, missingParameters()
	}
	sel, ok := model.ParseSelector(req.Model)
	if !ok {
		return nil, unknownModel(req.Model)
	}
	predictor, ok := s.models.Get(sel)
	if !ok {
		return nil, &UnavailableError{Model: sel}
	}

	img, format, err := imaging.DecodeBase64Image(req.Image, s.maxPixels)
	if err != nil {
		return nil, logging.NewOperationError("segmentation.decode", requestID, err)
	}
	opLogger.Debug("image decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.String("model", string(sel)))

	resized, input := imaging.Normalize(img, s.size, s.layout)

	output, err := predictor.Predict(ctx, input)
	if err != nil {
		return nil, logging.NewOperationError("segmentation.infer", requestID, err)
	}

	mask, err := NewMask(output, s.size)
	if err != nil {
		return nil, logging.NewOperationError("segmentation.postprocess", requestID, err)
	}

	metrics, err := Evaluate(PlaceholderReference(len(mask.Values)), mask.Values, Threshold)
	if err != nil {
		return nil, logging.NewOperationError("segmentation.metrics", requestID, err)
	}

	segmented, err := imaging.EncodePNGBase64(Overlay(resized, mask, FloodColor, OverlayAlpha))
	if err != nil {
		return nil, logging.NewOperationError("segmentation.encode_overlay", requestID, err)
	}
	maskImage, err := imaging.EncodePNGBase64(mask.Image())
	if err != nil {
		return nil, logging.NewOperationError("segmentation.encode_mask", requestID, err)
	}

	elapsed := s.now().Sub(start).Seconds()
	opLogger.Info("prediction complete",
		zap.String("model", string(sel)),
		zap.Float64("processing_time", elapsed),
		zap.Float64("iou", metrics.IoU))

	return &model.PredictResponse{
		SegmentedImage: segmented,
		MaskImage:      maskImage,
		Metrics:        metrics,
		ProcessingTime: elapsed,
		ModelUsed:      string(sel),
	}, nil
}
