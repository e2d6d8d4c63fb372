package predictor

import (
	"context"
	"fmt"
	"time"

	"UIAnnotator/internal/entity"

	"github.com/gofiber/fiber/v2"
)

const DefaultTimeout = 30 * time.Second

// httpPredictor posts the image as a multipart "file" field to an external
// detection service and reads back a JSON array of annotations.
type httpPredictor struct {
	url     string
	timeout time.Duration
}

func NewHTTP(url string, timeout time.Duration) IPredictor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &httpPredictor{
		url:     url,
		timeout: timeout,
	}
}

func (p *httpPredictor) Name() string {
	return "http"
}

type agentResult struct {
	code int
	body []byte
	errs []error
}

func (p *httpPredictor) Predict(ctx context.Context, req Request) ([]entity.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	agent := fiber.Post(p.url)
	agent.Timeout(timeout)
	agent.FileData(&fiber.FormFile{
		Fieldname: "file",
		Name:      uploadName(req.Image),
		Content:   req.Image.Data,
	})
	agent.MultipartForm(nil)

	done := make(chan agentResult, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- agentResult{code: code, body: body, errs: errs}
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if len(res.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, res.errs[0])
	}
	if res.code < fiber.StatusOK || res.code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", ErrServiceStatus, res.code)
	}

	return ParseAnnotations(res.body)
}

func uploadName(img entity.Image) string {
	if img.Filename != "" {
		return img.Filename
	}
	if img.Format != "" {
		return "image." + img.Format
	}
	return "image"
}
