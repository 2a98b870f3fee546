// Package config provides configuration types for the segmentation service.
package config

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Models    ModelsConfig    `toml:"models"`
	Inference InferenceConfig `toml:"inference"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	MaxBodyBytes           int64  `toml:"max_body_bytes"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// ModelsConfig describes the two segmentation artifacts and their tensor layout.
type ModelsConfig struct {
	Dir            string         `toml:"dir"`
	ImageSize      int            `toml:"image_size"`
	MaxInputPixels int            `toml:"max_input_pixels"`
	InputLayout    string         `toml:"input_layout"` // nhwc, nchw
	UNet           ArtifactConfig `toml:"unet"`
	MobileNet      ArtifactConfig `toml:"unet_mobilenet"`
}

// ArtifactConfig locates one exported model and names its graph endpoints.
type ArtifactConfig struct {
	Path       string `toml:"path"`
	InputName  string `toml:"input_name"`
	OutputName string `toml:"output_name"`
}

// InferenceConfig controls the ONNX Runtime and how requests reach sessions.
type InferenceConfig struct {
	SharedLibraryPath string `toml:"shared_library_path"`
	Mode              string `toml:"mode"` // serialized, pool
	PoolSize          int    `toml:"pool_size"`
	IntraOpThreads    int    `toml:"intra_op_threads"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}
