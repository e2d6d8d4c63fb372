package entity

import (
	"math"
	"strings"
)

type Source string

const (
	SourceUser       Source = "user"
	SourcePrediction Source = "prediction"
)

var SourceMap = map[string]Source{
	"user":       SourceUser,
	"prediction": SourcePrediction,
}

func ParseSource(s string) (Source, bool) {
	source, ok := SourceMap[strings.ToLower(strings.TrimSpace(s))]
	return source, ok
}

func (s Source) String() string {
	return string(s)
}

type Tag string

func (t Tag) String() string {
	return string(t)
}

// Vocabulary is the closed, ordered set of tags a session may assign.
type Vocabulary []Tag

var DefaultVocabulary = Vocabulary{"button", "input", "radio", "dropdown"}

func ParseVocabulary(csv string) Vocabulary {
	var vocab Vocabulary
	seen := map[Tag]struct{}{}
	for _, part := range strings.Split(csv, ",") {
		tag := Tag(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		vocab = append(vocab, tag)
	}
	return vocab
}

func (v Vocabulary) Contains(tag Tag) bool {
	for _, t := range v {
		if t == tag {
			return true
		}
	}
	return false
}

func (v Vocabulary) Default() Tag {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (v Vocabulary) Strings() []string {
	out := make([]string, len(v))
	for i, t := range v {
		out[i] = string(t)
	}
	return out
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coordinates is (x1, y1, x2, y2) in image pixel space.
type Coordinates [4]float64

func (c Coordinates) Width() float64 {
	return c[2] - c[0]
}

func (c Coordinates) Height() float64 {
	return c[3] - c[1]
}

func (c Coordinates) Area() float64 {
	if c.Width() <= 0 || c.Height() <= 0 {
		return 0
	}
	return c.Width() * c.Height()
}

func (c Coordinates) IsNormalized() bool {
	return c[0] <= c[2] && c[1] <= c[3]
}

func (c Coordinates) IsDegenerate() bool {
	return c.Width() == 0 || c.Height() == 0
}

func (c Coordinates) IsFinite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Annotation is the source-agnostic shape shared by the prediction service
// response and the export file.
type Annotation struct {
	Coordinates Coordinates `json:"box"`
	Tag         Tag         `json:"tag"`
}

type Box struct {
	Annotation
	Source Source `json:"source"`
}

type Image struct {
	Width    int
	Height   int
	Filename string
	Format   string
	Data     []byte
}

func (i Image) MimeType() string {
	if i.Format == "" {
		return "application/octet-stream"
	}
	return "image/" + i.Format
}
