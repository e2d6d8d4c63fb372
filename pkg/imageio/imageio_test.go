package imageio

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{0, 0, 0, 0xff})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := encode(t, 40, 30, imaging.PNG)

	img, err := Inspect(data, "uploads/screen.png")
	require.NoError(t, err)
	require.Equal(t, 40, img.Width)
	require.Equal(t, 30, img.Height)
	require.Equal(t, "png", img.Format)
	require.Equal(t, "screen.png", img.Filename)
	require.Equal(t, "image/png", img.MimeType())
	require.Equal(t, data, img.Data)

	jpg, err := Inspect(encode(t, 8, 6, imaging.JPEG), "")
	require.NoError(t, err)
	require.Equal(t, "jpeg", jpg.Format)
	require.Equal(t, "image.jpeg", jpg.Filename)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("definitely not an image"), "x.png")
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = Inspect(nil, "x.png")
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestRenderOverlay(t *testing.T) {
	data := encode(t, 100, 80, imaging.PNG)
	img, err := Inspect(data, "screen.png")
	require.NoError(t, err)

	session := canvas.NewSession("preview", entity.DefaultVocabulary)
	session.LoadImage(img)
	session.Pointer(canvas.PointerEvent{Kind: canvas.PointerDown, Point: entity.Point{X: 10, Y: 30}})
	session.Pointer(canvas.PointerEvent{Kind: canvas.PointerUp, Point: entity.Point{X: 60, Y: 70}})

	out, err := RenderOverlay(img, canvas.Project(session.Snapshot()))
	require.NoError(t, err)

	rendered, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 100, rendered.Bounds().Dx())
	require.Equal(t, 80, rendered.Bounds().Dy())

	nrgba := imaging.Clone(rendered)
	requireColorNear(t, strokeColors[canvas.StyleUser], nrgba.NRGBAAt(35, 70))
	requireColorNear(t, strokeColors[canvas.StyleUser], nrgba.NRGBAAt(10, 50))
	requireColorNear(t, color.NRGBA{0, 0, 0, 0xff}, nrgba.NRGBAAt(35, 50))
}

func requireColorNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -2 && d <= 2
	}
	require.Truef(t, near(want.R, got.R) && near(want.G, got.G) && near(want.B, got.B) && near(want.A, got.A),
		"want %v, got %v", want, got)
}

// withOrientation inserts an APP1 Exif segment carrying only the given
// orientation tag right after the JPEG SOI marker.
func withOrientation(t *testing.T, jpg []byte, orientation uint16) []byte {
	t.Helper()
	require.Equal(t, []byte{0xff, 0xd8}, jpg[:2])

	var tiff bytes.Buffer
	tiff.WriteString("MM")
	binary.Write(&tiff, binary.BigEndian, uint16(0x002a))
	binary.Write(&tiff, binary.BigEndian, uint32(8))
	binary.Write(&tiff, binary.BigEndian, uint16(1))
	binary.Write(&tiff, binary.BigEndian, uint16(0x0112))
	binary.Write(&tiff, binary.BigEndian, uint16(3))
	binary.Write(&tiff, binary.BigEndian, uint32(1))
	binary.Write(&tiff, binary.BigEndian, orientation)
	binary.Write(&tiff, binary.BigEndian, uint16(0))
	binary.Write(&tiff, binary.BigEndian, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	out.Write(jpg[:2])
	out.Write([]byte{0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(jpg[2:])
	return out.Bytes()
}

func TestInspectAppliesExifOrientation(t *testing.T) {
	rotated := withOrientation(t, encode(t, 40, 20, imaging.JPEG), 6)

	img, err := Inspect(rotated, "photo.jpg")
	require.NoError(t, err)
	require.Equal(t, 20, img.Width)
	require.Equal(t, 40, img.Height)
	require.Equal(t, "jpeg", img.Format)
	require.False(t, hasExif(img.Data))

	decoded, err := Decode(img.Data)
	require.NoError(t, err)
	require.Equal(t, 20, decoded.Bounds().Dx())
	require.Equal(t, 40, decoded.Bounds().Dy())

	again, err := Inspect(img.Data, "photo.jpg")
	require.NoError(t, err)
	require.Equal(t, img.Width, again.Width)
	require.Equal(t, img.Height, again.Height)
	require.Equal(t, img.Data, again.Data)
}

func TestInspectKeepsJPEGWithoutExif(t *testing.T) {
	data := encode(t, 40, 20, imaging.JPEG)

	img, err := Inspect(data, "photo.jpg")
	require.NoError(t, err)
	require.Equal(t, 40, img.Width)
	require.Equal(t, 20, img.Height)
	require.Equal(t, data, img.Data)
}

func TestRotatedJPEGBoxUsesDisplayedSize(t *testing.T) {
	img, err := Inspect(withOrientation(t, encode(t, 40, 20, imaging.JPEG), 6), "photo.jpg")
	require.NoError(t, err)

	session := canvas.NewSession("rotated", entity.DefaultVocabulary)
	session.LoadImage(img)
	session.Pointer(canvas.PointerEvent{Kind: canvas.PointerDown, Point: entity.Point{X: 0, Y: 0}})
	res := session.Pointer(canvas.PointerEvent{Kind: canvas.PointerUp, Point: entity.Point{X: 20, Y: 40}})

	require.NotNil(t, res.Committed)
	require.Equal(t, entity.Coordinates{0, 0, 20, 40}, res.Committed.Coordinates)

	out, err := RenderOverlay(img, canvas.Project(session.Snapshot()))
	require.NoError(t, err)
	rendered, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 20, rendered.Bounds().Dx())
	require.Equal(t, 40, rendered.Bounds().Dy())
}
