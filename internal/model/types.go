package model

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Image string `json:"image"`
	Model string `json:"model"`
}

// Metrics are the quality scores reported for a prediction.
type Metrics struct {
	IoU           float64 `json:"iou"`
	Dice          float64 `json:"dice"`
	PixelAccuracy float64 `json:"pixel_accuracy"`
}

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	SegmentedImage string  `json:"segmented_image"`
	MaskImage      string  `json:"mask_image"`
	Metrics        Metrics `json:"metrics"`
	ProcessingTime float64 `json:"processing_time"`
	ModelUsed      string  `json:"model_used"`
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	UNetLoaded      bool   `json:"unet_loaded"`
	MobileNetLoaded bool   `json:"mobilenet_loaded"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
