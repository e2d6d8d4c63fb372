package annotationHandler

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/pkg/canvas"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/handlerUtil"
	"UIAnnotator/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"strconv"
	"time"
)

func (h *AnnotationHandler) Predict(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.predictTimeout+5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing prediction request")

	resp, err := h.annotationService.Predict(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "predict")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AnnotationHandler) Evaluate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	threshold := canvas.DefaultIoUThreshold
	if raw := ctx.Query("iou"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 1 {
			return errHandler.Handle(ctx, requestID, annotation.ErrInvalidThreshold, ctx.Path(), "parse_threshold")
		}
		threshold = v
	}

	report, err := h.annotationService.Evaluate(c, ctx.Params("id"), threshold)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "evaluate")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, report)
}
