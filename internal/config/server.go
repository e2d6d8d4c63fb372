package config

import (
	annotationHandler "UIAnnotator/internal/api/annotation/handler"
	annotationRepository "UIAnnotator/internal/api/annotation/repository"
	annotationService "UIAnnotator/internal/api/annotation/service"
	"UIAnnotator/internal/middleware"
	"UIAnnotator/pkg/gemini"
	"UIAnnotator/pkg/predictor"
	"UIAnnotator/pkg/s3"
	"UIAnnotator/pkg/utils"
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"time"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	env          Env
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	geminiClient gemini.IGemini
	predictor    predictor.IPredictor
	s3Client     s3.ItfS3
	annotations  annotationService.IAnnotationService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithEnv(env Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.env.RateLimitRPS, s.env.RateLimitBurst)
		return nil
	}
}

// WithPredictor builds the backend named by PREDICTOR_BACKEND.
func WithPredictor() ServerOption {
	return func(s *Server) error {
		switch s.env.PredictorBackend {
		case PredictorGemini:
			client, err := gemini.New(s.env.GeminiAPIKey, s.env.GeminiModelName)
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to create Gemini client: %v", err)
				}
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.geminiClient = client
			s.predictor = predictor.NewGemini(client)
		case PredictorHTTP, "":
			s.predictor = predictor.NewHTTP(s.env.PredictorURL, s.env.PredictorTimeout)
		default:
			return fmt.Errorf("unknown predictor backend %q", s.env.PredictorBackend)
		}

		if s.log != nil {
			s.log.WithField("backend", s.predictor.Name()).Info("Predictor configured")
		}
		return nil
	}
}

// WithExportStore connects the S3 export store when a bucket is configured.
// Without one, export uploads answer 503 and downloads keep working.
func WithExportStore() ServerOption {
	return func(s *Server) error {
		if !s.env.ExportStoreEnabled() {
			if s.log != nil {
				s.log.Info("Export store disabled, AWS_BUCKET_NAME or AWS_REGION not set")
			}
			return nil
		}

		client, err := s3.New(s3.Config{
			Region:          s.env.AWSRegion,
			Bucket:          s.env.AWSBucketName,
			AccessKeyID:     s.env.AWSAccessKeyID,
			SecretAccessKey: s.env.AWSSecretAccessKey,
			Prefix:          s.env.AWSExportPrefix,
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New(s.env.MaxImageBytes)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Annotation Domain
	annotationRepo := annotationRepository.New(s.log)
	s.annotations = annotationService.NewAnnotationService(
		s.log,
		annotationRepo,
		s.predictor,
		s.s3Client,
		s.utils,
		annotationService.Options{
			Tags:              s.env.Tags,
			RejectUnknownTags: s.env.UnknownTags == UnknownTagsReject,
			PredictTimeout:    s.env.PredictorTimeout,
		},
	)
	annotationHandlers := annotationHandler.New(s.log, s.validator, s.middleware, s.annotations, s.utils, s.env.PredictorTimeout)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, annotationHandlers)
}

// StartJanitor evicts idle sessions and the rate limiters of idle clients
// until ctx is cancelled. It must be called after RegisterHandler.
func (s *Server) StartJanitor(ctx context.Context) {
	if s.annotations == nil {
		return
	}
	idleTTL := s.env.SessionIdleTTL
	if s.middleware == nil {
		go s.annotations.RunJanitor(ctx, idleTTL)
		return
	}
	go s.annotations.RunJanitor(ctx, idleTTL, func(time.Time) {
		s.middleware.PruneRateLimiters(idleTTL)
	})
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := s.env.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	if s.geminiClient != nil {
		if err := s.geminiClient.Close(); err != nil {
			s.log.Warnf("Failed to close Gemini client: %v", err)
		}
	}
	return s.engine.ShutdownWithTimeout(timeout)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":   "Server is Healthy!",
			"predictor": s.predictor.Name(),
			"export":    s.s3Client != nil,
		})
	})
}
