package canvas

import (
	"testing"

	"UIAnnotator/internal/entity"

	"github.com/stretchr/testify/require"
)

func TestSerializeStripsSource(t *testing.T) {
	boxes := []entity.Box{{
		Annotation: entity.Annotation{Coordinates: entity.Coordinates{10, 10, 50, 50}, Tag: "button"},
		Source:     entity.SourceUser,
	}}

	data, err := Serialize(boxes)
	require.NoError(t, err)
	require.Equal(t, `[{"box":[10,10,50,50],"tag":"button"}]`, string(data))
}

func TestSerializeEmpty(t *testing.T) {
	data, err := Serialize(nil)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))
}

func TestSerializeFractionalCoordinates(t *testing.T) {
	boxes := []entity.Box{{
		Annotation: entity.Annotation{Coordinates: entity.Coordinates{1.25, 2.5, 9.75, 10}, Tag: "radio"},
		Source:     entity.SourcePrediction,
	}}
	data, err := Serialize(boxes)
	require.NoError(t, err)
	require.Equal(t, `[{"box":[1.25,2.5,9.75,10],"tag":"radio"}]`, string(data))
}

func TestExportPerSource(t *testing.T) {
	s := NewStore()
	s.CommitUserBox(entity.Coordinates{10, 10, 50, 50}, "button")
	s.ReplacePredictions([]entity.Annotation{annotation(1, 1, 9, 9, "radio")})

	data, name, err := Export(s, entity.SourceUser)
	require.NoError(t, err)
	require.Equal(t, "user_annotation.json", name)
	require.Equal(t, `[{"box":[10,10,50,50],"tag":"button"}]`, string(data))

	data, name, err = Export(s, entity.SourcePrediction)
	require.NoError(t, err)
	require.Equal(t, "prediction.json", name)
	require.Equal(t, `[{"box":[1,1,9,9],"tag":"radio"}]`, string(data))

	_, _, err = Export(s, entity.Source("other"))
	require.ErrorIs(t, err, ErrUnknownSource)
}
