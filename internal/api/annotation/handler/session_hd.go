package annotationHandler

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/handlerUtil"
	"UIAnnotator/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AnnotationHandler) CreateSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	snap, err := h.annotationService.CreateSession(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusCreated, snap)
}

func (h *AnnotationHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	snap, err := h.annotationService.GetSession(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, snap)
}

func (h *AnnotationHandler) DeleteSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.annotationService.DeleteSession(c, ctx.Params("id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *AnnotationHandler) LoadImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("file")
	if err != nil {
		return errHandler.Handle(ctx, requestID, annotation.ErrMissingFile, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing image upload")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, mapUploadError(err), ctx.Path(), "validate_image_file")
	}

	data, err := h.utils.ReadFormFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, mapUploadError(err), ctx.Path(), "read_image_file")
	}

	snap, err := h.annotationService.LoadImage(c, ctx.Params("id"), file.Filename, data)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "load_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, snap)
	}
}

func (h *AnnotationHandler) SelectTag(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req annotation.SelectTagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	snap, err := h.annotationService.SelectTag(c, ctx.Params("id"), req.Tag)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "select_tag")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, snap)
}

func (h *AnnotationHandler) Pointer(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req annotation.PointerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	event, err := h.pointerEvent(req)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.annotationService.Pointer(c, ctx.Params("id"), event)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "pointer")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AnnotationHandler) pointerEvent(req annotation.PointerRequest) (canvas.PointerEvent, error) {
	if err := h.validator.Struct(req); err != nil {
		return canvas.PointerEvent{}, err
	}

	kind, err := canvas.ParsePointerKind(req.Type)
	if err != nil {
		return canvas.PointerEvent{}, err
	}

	return canvas.PointerEvent{
		Kind:  kind,
		Point: entity.Point{X: *req.X, Y: *req.Y},
	}, nil
}

func (h *AnnotationHandler) DeleteBox(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	index, err := ctx.ParamsInt("index")
	if err != nil {
		return errHandler.Handle(ctx, requestID, annotation.ErrInvalidIndex, ctx.Path(), "parse_index")
	}

	resp, err := h.annotationService.DeleteBox(c, ctx.Params("id"), ctx.Params("source"), index)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_box")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AnnotationHandler) Render(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	frame, err := h.annotationService.Render(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "render")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, frame)
}

func (h *AnnotationHandler) Preview(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	png, err := h.annotationService.Preview(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "preview")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		ctx.Type("png")
		return ctx.Status(fiber.StatusOK).Send(png)
	}
}
