package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/floodseg-api/internal/config"
	"github.com/Brownie44l1/floodseg-api/internal/handlers"
	"github.com/Brownie44l1/floodseg-api/internal/imaging"
	"github.com/Brownie44l1/floodseg-api/internal/logging"
	"github.com/Brownie44l1/floodseg-api/internal/model"
	"github.com/Brownie44l1/floodseg-api/internal/segmentation"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg, err := config.Load(getEnv("FLOODSEG_CONFIG", "config.toml"))
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	// Load has already validated the layout.
	layout := imaging.Layout(cfg.Models.InputLayout)

	registry := loadModels(cfg, layout, logger)
	defer closeModels(registry, logger)

	svc := segmentation.NewService(registry, cfg.Models.ImageSize, cfg.Models.MaxInputPixels, layout, logger)
	handler := handlers.NewHandler(svc, registry, cfg.Server.MaxBodyBytes, logger)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.RegisterRoutes(router, handler)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	logger.Info("flood segmentation API listening",
		zap.String("addr", cfg.Addr()),
		zap.String("inference_mode", cfg.Inference.Mode))
	if err := serveHTTPServer(server, cfg.ShutdownTimeout(), logger); err != nil {
		logger.Error("server failed", zap.Error(err))
	}
}

// loadModels initialises ONNX Runtime and opens both artifacts. Failures are
// logged and leave the affected model unloaded.
func loadModels(cfg *config.Config, layout imaging.Layout, logger *zap.Logger) *model.Registry {
	factory := model.NewSessionFactory(cfg.Inference.IntraOpThreads)
	if err := model.InitEnvironment(cfg.Inference.SharedLibraryPath); err != nil {
		logger.Error("onnx runtime unavailable", zap.Error(err))
		factory = func(model.Artifact) (model.Runner, error) { return nil, err }
	}

	loader := model.NewLoader(factory, model.Dispatch{
		Mode:     cfg.Inference.Mode,
		PoolSize: cfg.Inference.PoolSize,
	}, logger)
	registry := loader.Load(artifacts(cfg, layout))

	for _, sel := range model.Selectors {
		status := "not loaded"
		if registry.Loaded(sel) {
			status = "loaded"
		}
		logger.Info("model status", zap.String("model", sel.DisplayName()), zap.String("status", status))
	}
	return registry
}

func artifacts(cfg *config.Config, layout imaging.Layout) []model.Artifact {
	size := cfg.Models.ImageSize
	build := func(sel model.Selector, a config.ArtifactConfig) model.Artifact {
		return model.Artifact{
			Selector:    sel,
			Path:        cfg.ArtifactPath(a),
			InputName:   a.InputName,
			OutputName:  a.OutputName,
			InputShape:  layout.InputShape(size),
			OutputShape: layout.OutputShape(size),
		}
	}
	return []model.Artifact{
		build(model.UNet, cfg.Models.UNet),
		build(model.MobileNet, cfg.Models.MobileNet),
	}
}

func closeModels(registry *model.Registry, logger *zap.Logger) {
	if err := registry.Close(); err != nil {
		logger.Warn("failed to close models", zap.Error(err))
	}
	if err := model.DestroyEnvironment(); err != nil {
		logger.Debug("onnx runtime teardown", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
