package annotationService

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/log"
	"UIAnnotator/pkg/predictor"
	"errors"
	"fmt"
	"golang.org/x/net/context"
)

// Predict runs one request against the configured backend. The session is
// not locked while the backend works, so drawing and image changes go on;
// a response for an image that was replaced meanwhile is discarded.
func (s *annotationService) Predict(ctx context.Context, id string) (annotation.PredictResponse, error) {
	session, err := s.session(id)
	if err != nil {
		return annotation.PredictResponse{}, err
	}

	ticket, img, err := session.BeginPrediction()
	if err != nil {
		return annotation.PredictResponse{}, mapCanvasError(err)
	}

	fields := log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
		"backend":    s.predictor.Name(),
		"generation": ticket.Generation,
	}
	s.log.WithFields(fields).Debug("Prediction started")

	c, cancel := context.WithTimeout(ctx, s.opts.PredictTimeout)
	defer cancel()

	annotations, err := s.predictor.Predict(c, predictor.Request{
		Image: img,
		Tags:  session.Vocabulary(),
	})
	if err != nil {
		session.AbortPrediction(ticket)
		fields["error"] = err.Error()
		s.log.WithFields(fields).Error("Prediction failed")

		if errors.Is(err, context.DeadlineExceeded) {
			return annotation.PredictResponse{}, fmt.Errorf("%w: %v", annotation.ErrPredictionTimeout, err)
		}
		return annotation.PredictResponse{}, fmt.Errorf("%w: %v", annotation.ErrPredictionFailed, err)
	}

	kept, dropped := s.filterUnknownTags(annotations, session.Vocabulary(), fields)

	boxes, err := session.CompletePrediction(ticket, kept)
	if errors.Is(err, canvas.ErrStalePrediction) {
		s.log.WithFields(fields).Info("Discarded prediction for a replaced image")
		return annotation.PredictResponse{
			Applied: false,
			Count:   len(kept),
			Dropped: dropped,
			Backend: s.predictor.Name(),
			Boxes:   []entity.Box{},
		}, nil
	}
	if err != nil {
		return annotation.PredictResponse{}, mapCanvasError(err)
	}

	fields["count"] = len(boxes)
	s.log.WithFields(fields).Info("Prediction applied")

	return annotation.PredictResponse{
		Applied: true,
		Count:   len(boxes),
		Dropped: dropped,
		Backend: s.predictor.Name(),
		Boxes:   boxes,
	}, nil
}

// filterUnknownTags applies the unknown-tag policy. When accepting, tags
// outside the vocabulary are kept verbatim.
func (s *annotationService) filterUnknownTags(annotations []entity.Annotation, vocab entity.Vocabulary, fields log.Fields) ([]entity.Annotation, int) {
	if !s.opts.RejectUnknownTags {
		return annotations, 0
	}

	kept := make([]entity.Annotation, 0, len(annotations))
	var unknown []string
	for _, a := range annotations {
		if vocab.Contains(a.Tag) {
			kept = append(kept, a)
			continue
		}
		unknown = append(unknown, a.Tag.String())
	}

	if len(unknown) > 0 {
		s.log.WithFields(fields).WithField("unknown_tags", unknown).Warn("Dropped predictions with unknown tags")
	}

	return kept, len(unknown)
}
