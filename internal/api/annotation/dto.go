package annotation

import (
	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"
	"time"
)

type TagsResponse struct {
	Tags    []string `json:"tags"`
	Default string   `json:"default"`
}

type SelectTagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

type PointerRequest struct {
	Type string   `json:"type" validate:"required,oneof=down move up"`
	X    *float64 `json:"x" validate:"required"`
	Y    *float64 `json:"y" validate:"required"`
}

type PointerResponse struct {
	Result canvas.PointerResult `json:"result"`
	Frame  canvas.Frame         `json:"frame"`
}

type DeleteBoxResponse struct {
	Removed entity.Box      `json:"removed"`
	Boxes   canvas.Snapshot `json:"boxes"`
}

// PredictResponse reports whether the response was installed. Applied is
// false when the image changed while the request was running.
type PredictResponse struct {
	Applied bool         `json:"applied"`
	Count   int          `json:"count"`
	Dropped int          `json:"dropped"`
	Backend string       `json:"backend"`
	Boxes   []entity.Box `json:"boxes"`
}

type UploadResponse struct {
	Source    entity.Source `json:"source"`
	Filename  string        `json:"filename"`
	Key       string        `json:"key"`
	URL       string        `json:"url"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// SocketMessage is one server frame on the pointer stream.
type SocketMessage struct {
	Result *canvas.PointerResult `json:"result,omitempty"`
	Frame  *canvas.Frame         `json:"frame,omitempty"`
	Error  string                `json:"error,omitempty"`
	Code   string                `json:"code,omitempty"`
}
