package predictor

import (
	"context"
	"errors"

	"UIAnnotator/internal/entity"
)

var (
	ErrServiceUnavailable = errors.New("prediction service unreachable")
	ErrServiceStatus      = errors.New("prediction service returned an error status")
	ErrMalformedResponse  = errors.New("prediction service returned a malformed response")
)

// Request carries the image bytes exactly as loaded, plus the vocabulary so
// backends that need a prompt can name the allowed tags.
type Request struct {
	Image entity.Image
	Tags  entity.Vocabulary
}

// IPredictor produces annotations for one image. Implementations must be
// safe for concurrent use and must honor ctx cancellation where the
// transport allows it.
type IPredictor interface {
	Predict(ctx context.Context, req Request) ([]entity.Annotation, error)
	Name() string
}
