package canvas

import (
	"fmt"

	"UIAnnotator/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var exportFilenames = map[entity.Source]string{
	entity.SourceUser:       "user_annotation.json",
	entity.SourcePrediction: "prediction.json",
}

// Serialize writes a collection as a JSON array of {"box", "tag"} objects.
// Source and position are not part of the export shape.
func Serialize(boxes []entity.Box) ([]byte, error) {
	records := make([]entity.Annotation, 0, len(boxes))
	for _, b := range boxes {
		records = append(records, b.Annotation)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("serialize annotations: %w", err)
	}
	return data, nil
}

func ExportFilename(source entity.Source) (string, error) {
	name, ok := exportFilenames[source]
	if !ok {
		return "", ErrUnknownSource
	}
	return name, nil
}

// Export serializes the named collection of a store.
func Export(store *Store, source entity.Source) ([]byte, string, error) {
	name, err := ExportFilename(source)
	if err != nil {
		return nil, "", err
	}
	boxes, err := store.Boxes(source)
	if err != nil {
		return nil, "", err
	}
	data, err := Serialize(boxes)
	if err != nil {
		return nil, "", err
	}
	return data, name, nil
}
