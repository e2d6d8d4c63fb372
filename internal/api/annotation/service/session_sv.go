package annotationService

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/imageio"
	"UIAnnotator/pkg/log"
	"errors"
	"fmt"
	"golang.org/x/net/context"
	"time"
)

func (s *annotationService) CreateSession(ctx context.Context) (canvas.SessionSnapshot, error) {
	session := canvas.NewSession(s.utils.NewSessionID(), s.opts.Tags)
	s.repository.Save(session)

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": session.ID(),
		"sessions":   s.repository.Count(),
	}).Info("Session created")

	return session.Snapshot(), nil
}

func (s *annotationService) GetSession(ctx context.Context, id string) (canvas.SessionSnapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return canvas.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *annotationService) DeleteSession(ctx context.Context, id string) error {
	if !s.repository.Delete(id) {
		return annotation.ErrSessionNotFound
	}

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
	}).Info("Session deleted")

	return nil
}

// LoadImage decodes only the image header to learn its native size; the
// bytes themselves are stored untouched for the prediction call.
func (s *annotationService) LoadImage(ctx context.Context, id string, filename string, data []byte) (canvas.SessionSnapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return canvas.SessionSnapshot{}, err
	}

	img, err := imageio.Inspect(data, filename)
	if err != nil {
		if errors.Is(err, imageio.ErrUnsupportedImage) || errors.Is(err, imageio.ErrEmptyImage) {
			return canvas.SessionSnapshot{}, fmt.Errorf("%w: %v", annotation.ErrInvalidImage, err)
		}
		return canvas.SessionSnapshot{}, err
	}

	generation := session.LoadImage(img)

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
		"filename":   img.Filename,
		"format":     img.Format,
		"width":      img.Width,
		"height":     img.Height,
		"generation": generation,
	}).Info("Image loaded")

	return session.Snapshot(), nil
}

func (s *annotationService) SelectTag(ctx context.Context, id string, tag string) (canvas.SessionSnapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return canvas.SessionSnapshot{}, err
	}

	if err := session.SelectTag(entity.Tag(tag)); err != nil {
		return canvas.SessionSnapshot{}, mapCanvasError(err)
	}

	return session.Snapshot(), nil
}

func (s *annotationService) Pointer(ctx context.Context, id string, event canvas.PointerEvent) (annotation.PointerResponse, error) {
	session, err := s.session(id)
	if err != nil {
		return annotation.PointerResponse{}, err
	}

	result := session.Pointer(event)
	if result.Committed != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"tag":        result.Committed.Tag,
			"box":        result.Committed.Coordinates,
		}).Debug("User box committed")
	}

	return annotation.PointerResponse{
		Result: result,
		Frame:  canvas.Project(session.Snapshot()),
	}, nil
}

func (s *annotationService) DeleteBox(ctx context.Context, id string, source string, index int) (annotation.DeleteBoxResponse, error) {
	session, err := s.session(id)
	if err != nil {
		return annotation.DeleteBoxResponse{}, err
	}

	src, err := parseSource(source)
	if err != nil {
		return annotation.DeleteBoxResponse{}, err
	}

	removed, err := session.DeleteBox(src, index)
	if err != nil {
		return annotation.DeleteBoxResponse{}, mapCanvasError(err)
	}

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
		"source":     src,
		"index":      index,
	}).Debug("Box deleted")

	return annotation.DeleteBoxResponse{
		Removed: removed,
		Boxes:   session.Store().Snapshot(),
	}, nil
}

func (s *annotationService) Render(ctx context.Context, id string) (canvas.Frame, error) {
	session, err := s.session(id)
	if err != nil {
		return canvas.Frame{}, err
	}
	return canvas.Project(session.Snapshot()), nil
}

func (s *annotationService) Preview(ctx context.Context, id string) ([]byte, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}

	snap, img, ok := session.View()
	if !ok {
		return nil, annotation.ErrNoImage
	}

	return imageio.RenderOverlay(img, canvas.Project(snap))
}

func (s *annotationService) Evaluate(ctx context.Context, id string, threshold float64) (canvas.Report, error) {
	session, err := s.session(id)
	if err != nil {
		return canvas.Report{}, err
	}

	snap := session.Snapshot()
	return canvas.Evaluate(snap.Boxes.User, snap.Boxes.Prediction, session.Vocabulary(), threshold), nil
}

// RunJanitor removes sessions idle for longer than idleTTL until ctx ends.
// Each extra sweep runs on the same tick, after the sessions are swept.
func (s *annotationService) RunJanitor(ctx context.Context, idleTTL time.Duration, sweeps ...func(now time.Time)) {
	interval := idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now, idleTTL, sweeps)
		}
	}
}

func (s *annotationService) sweep(now time.Time, idleTTL time.Duration, sweeps []func(now time.Time)) int {
	removed := s.repository.SweepIdle(now.Add(-idleTTL))
	for _, fn := range sweeps {
		fn(now)
	}
	return removed
}
