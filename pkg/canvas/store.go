package canvas

import (
	"sync"

	"UIAnnotator/internal/entity"
)

// Store owns the two box collections of a session. User and prediction
// boxes live in separate slices so an index always refers to one
// collection; it is only valid against the current contents.
type Store struct {
	user       []entity.Box
	prediction []entity.Box
	mu         sync.RWMutex
}

type Snapshot struct {
	User       []entity.Box `json:"user_boxes"`
	Prediction []entity.Box `json:"prediction_boxes"`
}

func NewStore() *Store {
	return &Store{
		user:       []entity.Box{},
		prediction: []entity.Box{},
	}
}

func (s *Store) CommitUserBox(coordinates entity.Coordinates, tag entity.Tag) entity.Box {
	box := entity.Box{
		Annotation: entity.Annotation{
			Coordinates: NormalizeCoordinates(coordinates),
			Tag:         tag,
		},
		Source: entity.SourceUser,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = append(s.user, box)
	return box
}

// ReplacePredictions discards every prediction box and installs the given
// set in one step, stamping each entry as prediction-sourced.
func (s *Store) ReplacePredictions(annotations []entity.Annotation) []entity.Box {
	next := make([]entity.Box, 0, len(annotations))
	for _, a := range annotations {
		next = append(next, entity.Box{
			Annotation: entity.Annotation{
				Coordinates: NormalizeCoordinates(a.Coordinates),
				Tag:         a.Tag,
			},
			Source: entity.SourcePrediction,
		})
	}

	s.mu.Lock()
	s.prediction = next
	s.mu.Unlock()

	return cloneBoxes(next)
}

func (s *Store) DeleteBox(source entity.Source, index int) (entity.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.collection(source)
	if err != nil {
		return entity.Box{}, err
	}
	if index < 0 || index >= len(*list) {
		return entity.Box{}, ErrIndexOutOfRange
	}

	removed := (*list)[index]
	next := make([]entity.Box, 0, len(*list)-1)
	next = append(next, (*list)[:index]...)
	next = append(next, (*list)[index+1:]...)
	*list = next
	return removed, nil
}

func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = []entity.Box{}
	s.prediction = []entity.Box{}
}

func (s *Store) Boxes(source entity.Source) ([]entity.Box, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch source {
	case entity.SourceUser:
		return cloneBoxes(s.user), nil
	case entity.SourcePrediction:
		return cloneBoxes(s.prediction), nil
	default:
		return nil, ErrUnknownSource
	}
}

func (s *Store) Len(source entity.Source) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch source {
	case entity.SourceUser:
		return len(s.user)
	case entity.SourcePrediction:
		return len(s.prediction)
	default:
		return 0
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:       cloneBoxes(s.user),
		Prediction: cloneBoxes(s.prediction),
	}
}

// collection must be called with the write lock held.
func (s *Store) collection(source entity.Source) (*[]entity.Box, error) {
	switch source {
	case entity.SourceUser:
		return &s.user, nil
	case entity.SourcePrediction:
		return &s.prediction, nil
	default:
		return nil, ErrUnknownSource
	}
}

func cloneBoxes(boxes []entity.Box) []entity.Box {
	out := make([]entity.Box, len(boxes))
	copy(out, boxes)
	return out
}
