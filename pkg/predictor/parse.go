package predictor

import (
	"bytes"
	"fmt"
	"strings"

	"UIAnnotator/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rawAnnotation struct {
	Box []*float64 `json:"box"`
	Tag *string    `json:"tag"`
}

// ParseAnnotations decodes a response body of the form
// [{"box": [x1, y1, x2, y2], "tag": "..."}]. Any entry without exactly four
// finite numbers or a non-empty tag rejects the whole response.
func ParseAnnotations(body []byte) ([]entity.Annotation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	var raw []rawAnnotation
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	annotations := make([]entity.Annotation, 0, len(raw))
	for i, r := range raw {
		if len(r.Box) != 4 {
			return nil, fmt.Errorf("%w: entry %d has %d coordinates", ErrMalformedResponse, i, len(r.Box))
		}
		if r.Tag == nil || strings.TrimSpace(*r.Tag) == "" {
			return nil, fmt.Errorf("%w: entry %d has no tag", ErrMalformedResponse, i)
		}

		var coords entity.Coordinates
		for j, v := range r.Box {
			if v == nil {
				return nil, fmt.Errorf("%w: entry %d has a null coordinate", ErrMalformedResponse, i)
			}
			coords[j] = *v
		}
		if !coords.IsFinite() {
			return nil, fmt.Errorf("%w: entry %d has non-finite coordinates", ErrMalformedResponse, i)
		}

		annotations = append(annotations, entity.Annotation{
			Coordinates: coords,
			Tag:         entity.Tag(strings.TrimSpace(*r.Tag)),
		})
	}

	return annotations, nil
}

// ExtractJSONArray returns the outermost [...] span of a free-text model
// answer, which may wrap the array in prose or code fences.
func ExtractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")

	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: cannot find a JSON array in response", ErrMalformedResponse)
	}

	return text[start : end+1], nil
}
