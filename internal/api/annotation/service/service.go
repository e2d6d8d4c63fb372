package annotationService

import (
	"UIAnnotator/internal/api/annotation"
	annotationRepository "UIAnnotator/internal/api/annotation/repository"
	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"
	"UIAnnotator/pkg/predictor"
	"UIAnnotator/pkg/s3"
	"UIAnnotator/pkg/utils"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

type IAnnotationService interface {
	Tags() annotation.TagsResponse

	CreateSession(ctx context.Context) (canvas.SessionSnapshot, error)
	GetSession(ctx context.Context, id string) (canvas.SessionSnapshot, error)
	DeleteSession(ctx context.Context, id string) error

	LoadImage(ctx context.Context, id string, filename string, data []byte) (canvas.SessionSnapshot, error)
	SelectTag(ctx context.Context, id string, tag string) (canvas.SessionSnapshot, error)
	Pointer(ctx context.Context, id string, event canvas.PointerEvent) (annotation.PointerResponse, error)
	DeleteBox(ctx context.Context, id string, source string, index int) (annotation.DeleteBoxResponse, error)

	Predict(ctx context.Context, id string) (annotation.PredictResponse, error)

	Export(ctx context.Context, id string, source string) ([]byte, string, error)
	UploadExport(ctx context.Context, id string, source string) (annotation.UploadResponse, error)

	Render(ctx context.Context, id string) (canvas.Frame, error)
	Preview(ctx context.Context, id string) ([]byte, error)
	Evaluate(ctx context.Context, id string, threshold float64) (canvas.Report, error)

	RunJanitor(ctx context.Context, idleTTL time.Duration, sweeps ...func(now time.Time))
}

type Options struct {
	Tags              entity.Vocabulary
	RejectUnknownTags bool
	PredictTimeout    time.Duration
}

type annotationService struct {
	log         *logrus.Logger
	repository  annotationRepository.Repository
	predictor   predictor.IPredictor
	exportStore s3.ItfS3
	utils       utils.IUtils
	opts        Options
}

// NewAnnotationService wires the session registry to its collaborators.
// exportStore may be nil, in which case uploads report the store as
// unavailable.
func NewAnnotationService(
	log *logrus.Logger,
	repository annotationRepository.Repository,
	predictor predictor.IPredictor,
	exportStore s3.ItfS3,
	utils utils.IUtils,
	opts Options,
) IAnnotationService {
	if len(opts.Tags) == 0 {
		opts.Tags = entity.DefaultVocabulary
	}
	if opts.PredictTimeout <= 0 {
		opts.PredictTimeout = 30 * time.Second
	}

	return &annotationService{
		log:         log,
		repository:  repository,
		predictor:   predictor,
		exportStore: exportStore,
		utils:       utils,
		opts:        opts,
	}
}

func (s *annotationService) Tags() annotation.TagsResponse {
	return annotation.TagsResponse{
		Tags:    s.opts.Tags.Strings(),
		Default: s.opts.Tags.Default().String(),
	}
}

func (s *annotationService) session(id string) (*canvas.Session, error) {
	session, ok := s.repository.Get(id)
	if !ok {
		return nil, annotation.ErrSessionNotFound
	}
	return session, nil
}

func mapCanvasError(err error) error {
	switch {
	case errors.Is(err, canvas.ErrNoImage):
		return annotation.ErrNoImage
	case errors.Is(err, canvas.ErrIndexOutOfRange):
		return annotation.ErrBoxNotFound
	case errors.Is(err, canvas.ErrUnknownSource):
		return annotation.ErrUnknownSource
	case errors.Is(err, canvas.ErrUnknownTag):
		return annotation.ErrUnknownTag
	case errors.Is(err, canvas.ErrPredictionInFlight):
		return annotation.ErrPredictionInFlight
	default:
		return err
	}
}

func parseSource(source string) (entity.Source, error) {
	src, ok := entity.ParseSource(source)
	if !ok {
		return "", annotation.ErrUnknownSource
	}
	return src, nil
}
