package canvas

import (
	"testing"

	"UIAnnotator/internal/entity"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAllOrderings(t *testing.T) {
	want := entity.Coordinates{5, 5, 25, 15}
	corners := [][2]entity.Point{
		{{X: 5, Y: 5}, {X: 25, Y: 15}},
		{{X: 25, Y: 15}, {X: 5, Y: 5}},
		{{X: 5, Y: 15}, {X: 25, Y: 5}},
		{{X: 25, Y: 5}, {X: 5, Y: 15}},
	}
	for _, c := range corners {
		got := Normalize(c[0], c[1])
		require.Equal(t, want, got, "normalize(%v, %v)", c[0], c[1])
		require.True(t, got.IsNormalized())
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	p := entity.Point{X: 7, Y: 9}
	got := Normalize(p, p)
	require.Equal(t, entity.Coordinates{7, 9, 7, 9}, got)
	require.True(t, got.IsDegenerate())

	line := Normalize(entity.Point{X: 1, Y: 3}, entity.Point{X: 10, Y: 3})
	require.True(t, line.IsDegenerate())
	require.Zero(t, line.Area())
}

func TestClamp(t *testing.T) {
	got := Clamp(entity.Coordinates{-4, 2, 120, 90}, 100, 80)
	require.Equal(t, entity.Coordinates{0, 2, 100, 80}, got)

	unbounded := Clamp(entity.Coordinates{-4, -2, 120, 90}, 0, 0)
	require.Equal(t, entity.Coordinates{-4, -2, 120, 90}, unbounded)
}

func TestIoU(t *testing.T) {
	a := entity.Coordinates{0, 0, 10, 10}
	b := entity.Coordinates{5, 5, 15, 15}
	require.InDelta(t, 25.0/175.0, IoU(a, b), 1e-9)
	require.Equal(t, 1.0, IoU(a, a))
	require.Zero(t, IoU(a, entity.Coordinates{20, 20, 30, 30}))
	require.Zero(t, IoU(entity.Coordinates{1, 1, 1, 1}, entity.Coordinates{1, 1, 1, 1}))
}
