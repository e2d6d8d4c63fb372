package canvas

import "errors"

var (
	ErrNoImage            = errors.New("no image loaded")
	ErrIndexOutOfRange    = errors.New("box index out of range")
	ErrUnknownSource      = errors.New("unknown box source")
	ErrUnknownTag         = errors.New("tag is not in the vocabulary")
	ErrPredictionInFlight = errors.New("a prediction request is already in flight for this image")
	ErrStalePrediction    = errors.New("prediction response belongs to a replaced image")
)
