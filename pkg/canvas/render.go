package canvas

import (
	"math"

	"UIAnnotator/internal/entity"
)

type PrimitiveKind string

const (
	KindRect  PrimitiveKind = "rect"
	KindLabel PrimitiveKind = "label"
)

type Style string

const (
	StyleUser       Style = "user"
	StylePrediction Style = "prediction"
	StyleDraft      Style = "draft"
)

const (
	labelOffset   = 16
	labelFontSize = 14
	labelMinWidth = 60
	labelCharW    = 10
)

// Primitive is one drawable shape. Index points into the collection named
// by Style and is -1 for the draft.
type Primitive struct {
	Kind   PrimitiveKind `json:"kind"`
	Style  Style         `json:"style"`
	Index  int           `json:"index"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Text   string        `json:"text,omitempty"`
}

type Frame struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Primitives []Primitive `json:"primitives"`
}

// Project maps a session snapshot to drawable primitives: user boxes, then
// prediction boxes, then the draft on top. It holds no state.
func Project(snap SessionSnapshot) Frame {
	frame := Frame{Primitives: []Primitive{}}
	if snap.Image != nil {
		frame.Width = snap.Image.Width
		frame.Height = snap.Image.Height
	}

	frame.Primitives = appendBoxes(frame.Primitives, snap.Boxes.User, StyleUser)
	frame.Primitives = appendBoxes(frame.Primitives, snap.Boxes.Prediction, StylePrediction)

	if snap.Draft != nil {
		d := snap.Draft
		frame.Primitives = append(frame.Primitives, Primitive{
			Kind:   KindRect,
			Style:  StyleDraft,
			Index:  -1,
			X:      math.Min(d.Start.X, d.End.X),
			Y:      math.Min(d.Start.Y, d.End.Y),
			Width:  math.Abs(d.Start.X - d.End.X),
			Height: math.Abs(d.Start.Y - d.End.Y),
		})
	}

	return frame
}

func appendBoxes(out []Primitive, boxes []entity.Box, style Style) []Primitive {
	for i, b := range boxes {
		c := b.Coordinates
		out = append(out,
			Primitive{
				Kind:   KindRect,
				Style:  style,
				Index:  i,
				X:      c[0],
				Y:      c[1],
				Width:  c.Width(),
				Height: c.Height(),
			},
			labelFor(c, b.Tag, style, i),
		)
	}
	return out
}

func labelFor(c entity.Coordinates, tag entity.Tag, style Style, index int) Primitive {
	text := string(tag)
	return Primitive{
		Kind:   KindLabel,
		Style:  style,
		Index:  index,
		X:      c[0],
		Y:      c[1] - labelOffset,
		Width:  math.Max(labelMinWidth, float64(len(text)*labelCharW)),
		Height: labelFontSize + 6,
		Text:   text,
	}
}
