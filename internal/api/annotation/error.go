package annotation

import (
	"UIAnnotator/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound     = response.NewError(http.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
	ErrNoImage             = response.NewError(http.StatusConflict, "NO_IMAGE", "no image loaded")
	ErrMissingFile         = response.NewError(http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
	ErrInvalidImage        = response.NewError(http.StatusUnsupportedMediaType, "INVALID_IMAGE", "file is not a supported image")
	ErrImageTooLarge       = response.NewError(http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds the size limit")
	ErrUnknownTag          = response.NewError(http.StatusBadRequest, "UNKNOWN_TAG", "tag is not in the vocabulary")
	ErrUnknownSource       = response.NewError(http.StatusBadRequest, "UNKNOWN_SOURCE", "source must be user or prediction")
	ErrInvalidIndex        = response.NewError(http.StatusBadRequest, "INVALID_INDEX", "box index must be an integer")
	ErrBoxNotFound         = response.NewError(http.StatusNotFound, "BOX_NOT_FOUND", "box index out of range")
	ErrInvalidPointer      = response.NewError(http.StatusBadRequest, "INVALID_POINTER_EVENT", "invalid pointer event")
	ErrInvalidThreshold    = response.NewError(http.StatusBadRequest, "INVALID_THRESHOLD", "iou must be in (0, 1]")
	ErrPredictionInFlight  = response.NewError(http.StatusConflict, "PREDICTION_IN_FLIGHT", "a prediction is already running for this image")
	ErrPredictionFailed    = response.NewError(http.StatusBadGateway, "PREDICTION_FAILED", "prediction service failed")
	ErrPredictionTimeout   = response.NewError(http.StatusGatewayTimeout, "PREDICTION_TIMEOUT", "prediction service timed out")
	ErrExportStoreDisabled = response.NewError(http.StatusServiceUnavailable, "EXPORT_STORE_UNAVAILABLE", "export storage is not configured")
	ErrExportUploadFailed  = response.NewError(http.StatusBadGateway, "EXPORT_UPLOAD_FAILED", "failed to upload export")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
)
