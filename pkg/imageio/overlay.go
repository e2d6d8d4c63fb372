package imageio

import (
	"bytes"
	"image/color"

	"UIAnnotator/internal/entity"
	"UIAnnotator/pkg/canvas"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

var strokeColors = map[canvas.Style]color.NRGBA{
	canvas.StyleUser:       {0x21, 0x96, 0xf3, 0xff},
	canvas.StylePrediction: {0xff, 0x00, 0x00, 0xff},
	canvas.StyleDraft:      {0x88, 0x88, 0x88, 0xff},
}

var labelFill = color.NRGBA{0xff, 0xff, 0xff, 0xb3}

const (
	strokeWidth      = 2
	labelStrokeWidth = 1
	labelTextInsetX  = 5
	labelTextInsetY  = 15
)

// RenderOverlay draws a projected frame over the loaded image and returns
// the result as PNG.
func RenderOverlay(img entity.Image, frame canvas.Frame) ([]byte, error) {
	src, err := Decode(img.Data)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(src)
	dc.SetFontFace(basicfont.Face7x13)

	for _, p := range frame.Primitives {
		c := strokeColors[p.Style]
		switch p.Kind {
		case canvas.KindRect:
			strokeRect(dc, p, c, strokeWidth)
		case canvas.KindLabel:
			dc.SetColor(labelFill)
			dc.DrawRectangle(p.X, p.Y, p.Width, p.Height)
			dc.Fill()
			strokeRect(dc, p, c, labelStrokeWidth)
			dc.SetColor(c)
			dc.DrawString(p.Text, p.X+labelTextInsetX, p.Y+labelTextInsetY)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strokeRect(dc *gg.Context, p canvas.Primitive, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(p.X, p.Y, p.Width, p.Height)
	dc.Stroke()
}
