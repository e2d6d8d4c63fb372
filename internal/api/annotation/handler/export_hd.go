package annotationHandler

import (
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/handlerUtil"
	"UIAnnotator/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// Export downloads one collection as a JSON attachment.
func (h *AnnotationHandler) Export(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	data, filename, err := h.annotationService.Export(c, ctx.Params("id"), ctx.Params("source"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "export")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"filename":   filename,
		"bytes":      len(data),
	}).Debug("Export generated")

	ctx.Attachment(filename)
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Status(fiber.StatusOK).Send(data)
}

func (h *AnnotationHandler) UploadExport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	resp, err := h.annotationService.UploadExport(c, ctx.Params("id"), ctx.Params("source"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_export")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}
