package annotationHandler

import (
	"UIAnnotator/internal/api/annotation"
	annotationService "UIAnnotator/internal/api/annotation/service"
	"UIAnnotator/internal/middleware"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/handlerUtil"
	"UIAnnotator/pkg/utils"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

const requestTimeout = 10 * time.Second

type AnnotationHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	annotationService annotationService.IAnnotationService
	utils             utils.IUtils
	predictTimeout    time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	annotationService annotationService.IAnnotationService,
	utils utils.IUtils,
	predictTimeout time.Duration,
) *AnnotationHandler {
	return &AnnotationHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		annotationService: annotationService,
		utils:             utils,
		predictTimeout:    predictTimeout,
	}
}

func (h *AnnotationHandler) Start(srv fiber.Router) {
	srv.Get("/tags", h.GetTags)
	srv.Post("/sessions", h.CreateSession)

	sessions := srv.Group("/sessions")
	sessions.Get("/:id", h.GetSession)
	sessions.Delete("/:id", h.DeleteSession)

	sessions.Put("/:id/image", h.LoadImage)
	sessions.Put("/:id/tag", h.SelectTag)
	sessions.Post("/:id/pointer", h.Pointer)
	sessions.Get("/:id/ws", h.upgradeSocket, websocket.New(h.handlePointerSocket))
	sessions.Delete("/:id/boxes/:source/:index", h.DeleteBox)

	sessions.Post("/:id/predict", h.middleware.NewRateLimiter, h.Predict)

	sessions.Get("/:id/export/:source", h.Export)
	sessions.Post("/:id/export/:source/upload", h.UploadExport)

	sessions.Get("/:id/render", h.Render)
	sessions.Get("/:id/preview", h.Preview)
	sessions.Get("/:id/evaluation", h.Evaluate)
}

// upgradeSocket only lets websocket handshakes for existing sessions through.
func (h *AnnotationHandler) upgradeSocket(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	requestID := h.middleware.GetRequestID(ctx)
	if _, err := h.annotationService.GetSession(contextPkg.FromFiberCtx(ctx), ctx.Params("id")); err != nil {
		return handlerUtil.New(h.log).Handle(ctx, requestID, err, ctx.Path(), "upgrade_socket")
	}

	ctx.Locals(middleware.RequestIDKey, requestID)
	return ctx.Next()
}

func (h *AnnotationHandler) GetTags(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.annotationService.Tags())
}

func mapUploadError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return annotation.ErrMissingFile
	case errors.Is(err, utils.ErrFileTooLarge):
		return annotation.ErrImageTooLarge
	case errors.Is(err, utils.ErrNotAnImage):
		return annotation.ErrInvalidImage
	default:
		return err
	}
}
