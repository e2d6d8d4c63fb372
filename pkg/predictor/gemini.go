package predictor

import (
	"context"
	"fmt"
	"strings"

	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/gemini"
)

type geminiPredictor struct {
	client gemini.IGemini
}

// NewGemini asks a multimodal model for the UI elements of the image and
// parses its answer like any other prediction response.
func NewGemini(client gemini.IGemini) IPredictor {
	return &geminiPredictor{
		client: client,
	}
}

func (p *geminiPredictor) Name() string {
	return "gemini"
}

func (p *geminiPredictor) Predict(ctx context.Context, req Request) ([]entity.Annotation, error) {
	text, err := p.client.AnalyzeImage(ctx, req.Image.Data, req.Image.Format, buildPrompt(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	array, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}

	return ParseAnnotations([]byte(array))
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Detect the interactive UI elements in this screenshot.\n")
	fmt.Fprintf(&b, "The image is %d pixels wide and %d pixels high.\n", req.Image.Width, req.Image.Height)
	fmt.Fprintf(&b, "Use only these tags: %s.\n", strings.Join(req.Tags.Strings(), ", "))
	b.WriteString("Answer with a JSON array only, one object per element:\n")
	b.WriteString(`[{"box": [x1, y1, x2, y2], "tag": "button"}]` + "\n")
	b.WriteString("Coordinates are absolute pixels with (x1, y1) the top-left corner. Return [] if there are none.")
	return b.String()
}
