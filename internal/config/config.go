package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Brownie44l1/floodseg-api/internal/imaging"
	"github.com/Brownie44l1/floodseg-api/internal/model"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   5000,
			MaxBodyBytes:           20 << 20,
			ShutdownTimeoutSeconds: 15,
		},
		Models: ModelsConfig{
			Dir:            ".",
			ImageSize:      256,
			MaxInputPixels: imaging.DefaultMaxPixels,
			InputLayout:    string(imaging.NHWC),
			UNet: ArtifactConfig{
				Path:       "unet_flood_final.onnx",
				InputName:  "input",
				OutputName: "output",
			},
			MobileNet: ArtifactConfig{
				Path:       "unet_mnv2_final.onnx",
				InputName:  "input",
				OutputName: "output",
			},
		},
		Inference: InferenceConfig{
			Mode:     model.DispatchSerialized,
			PoolSize: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from the given path and applies environment
// overrides. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv populates the process environment from a .env file if one exists.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnv("FLOODSEG_HOST", c.Server.Host)
	c.Models.Dir = getEnv("FLOODSEG_MODEL_DIR", c.Models.Dir)
	c.Inference.SharedLibraryPath = getEnv("ONNXRUNTIME_LIB", c.Inference.SharedLibraryPath)
	c.Inference.Mode = getEnv("FLOODSEG_INFERENCE_MODE", c.Inference.Mode)
	c.Log.Level = getEnv("FLOODSEG_LOG_LEVEL", c.Log.Level)

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if size := os.Getenv("FLOODSEG_POOL_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid FLOODSEG_POOL_SIZE %q: %w", size, err)
		}
		c.Inference.PoolSize = n
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds must be positive")
	}
	if c.Models.ImageSize <= 0 {
		return fmt.Errorf("models.image_size must be positive")
	}
	if c.Models.MaxInputPixels <= 0 {
		return fmt.Errorf("models.max_input_pixels must be positive")
	}
	if _, err := imaging.ParseLayout(c.Models.InputLayout); err != nil {
		return fmt.Errorf("models.input_layout: %w", err)
	}
	switch c.Inference.Mode {
	case model.DispatchSerialized:
	case model.DispatchPool:
		if c.Inference.PoolSize < 1 {
			return fmt.Errorf("inference.pool_size must be at least 1")
		}
	default:
		return fmt.Errorf("unknown inference.mode %q", c.Inference.Mode)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// ArtifactPath resolves an artifact path against models.dir.
func (c *Config) ArtifactPath(a ArtifactConfig) string {
	if filepath.IsAbs(a.Path) {
		return a.Path
	}
	return filepath.Join(c.Models.Dir, a.Path)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
