package canvas

import (
	"sync"
	"time"

	"UIAnnotator/internal/entity"
)

// Ticket identifies the image a prediction request was issued for.
type Ticket struct {
	Generation uint64
}

type PointerResult struct {
	Accepted  bool        `json:"accepted"`
	Committed *entity.Box `json:"committed,omitempty"`
	Discarded bool        `json:"discarded"`
}

type SessionSnapshot struct {
	ID          string            `json:"id"`
	Image       *ImageInfo        `json:"image,omitempty"`
	Generation  uint64            `json:"generation"`
	Tags        entity.Vocabulary `json:"tags"`
	SelectedTag entity.Tag        `json:"selected_tag"`
	Predicting  bool              `json:"predicting"`
	DrawState   string            `json:"draw_state"`
	Draft       *Draft            `json:"draft,omitempty"`
	Boxes       Snapshot          `json:"boxes"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type ImageInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// Session is the state of one annotation canvas. Every mutation runs under
// the session lock, so events are applied one at a time in arrival order.
type Session struct {
	id         string
	vocab      entity.Vocabulary
	image      *entity.Image
	generation uint64
	store      *Store
	draw       Machine
	selected   entity.Tag

	inFlight    bool
	inFlightGen uint64

	createdAt time.Time
	updatedAt time.Time
	mu        sync.Mutex
}

func NewSession(id string, vocab entity.Vocabulary) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		vocab:     vocab,
		store:     NewStore(),
		selected:  vocab.Default(),
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Vocabulary() entity.Vocabulary {
	return s.vocab
}

func (s *Session) Store() *Store {
	return s.store
}

// LoadImage installs a new image. Both collections are cleared, any drag is
// dropped and an outstanding prediction is orphaned by the generation bump.
func (s *Session) LoadImage(img entity.Image) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = &img
	s.generation++
	s.store.ClearAll()
	s.draw.Reset()
	s.inFlight = false
	s.touch()
	return s.generation
}

func (s *Session) Image() (entity.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return entity.Image{}, false
	}
	return *s.image, true
}

func (s *Session) SelectTag(tag entity.Tag) error {
	if !s.vocab.Contains(tag) {
		return ErrUnknownTag
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = tag
	s.touch()
	return nil
}

func (s *Session) SelectedTag() entity.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Pointer feeds one pointer event to the draw machine. Events that do not
// apply to the current state are absorbed and reported as not accepted.
func (s *Session) Pointer(ev PointerEvent) PointerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case PointerDown:
		if s.image == nil {
			return PointerResult{}
		}
		s.draw.Down(ev.Point)
		s.touch()
		return PointerResult{Accepted: true}

	case PointerMove:
		if !s.draw.Move(ev.Point) {
			return PointerResult{}
		}
		s.touch()
		return PointerResult{Accepted: true}

	case PointerUp:
		coords, ok := s.draw.Up(ev.Point)
		if !ok {
			return PointerResult{}
		}
		s.touch()
		if s.image != nil {
			coords = Clamp(coords, s.image.Width, s.image.Height)
		}
		if coords.IsDegenerate() {
			return PointerResult{Accepted: true, Discarded: true}
		}
		box := s.store.CommitUserBox(coords, s.selected)
		return PointerResult{Accepted: true, Committed: &box}
	}

	return PointerResult{}
}

func (s *Session) DeleteBox(source entity.Source, index int) (entity.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	box, err := s.store.DeleteBox(source, index)
	if err != nil {
		return entity.Box{}, err
	}
	s.touch()
	return box, nil
}

// BeginPrediction marks a request in flight for the current image and
// returns the ticket that must accompany its completion.
func (s *Session) BeginPrediction() (Ticket, entity.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return Ticket{}, entity.Image{}, ErrNoImage
	}
	if s.inFlight && s.inFlightGen == s.generation {
		return Ticket{}, entity.Image{}, ErrPredictionInFlight
	}

	s.inFlight = true
	s.inFlightGen = s.generation
	return Ticket{Generation: s.generation}, *s.image, nil
}

// CompletePrediction installs the response of a finished request. A ticket
// for an image that has since been replaced changes nothing.
func (s *Session) CompletePrediction(t Ticket, annotations []entity.Annotation) ([]entity.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation {
		return nil, ErrStalePrediction
	}

	s.inFlight = false
	boxes := s.store.ReplacePredictions(annotations)
	s.touch()
	return boxes, nil
}

// AbortPrediction releases the in-flight marker after a failed request.
// The prediction collection is left as it was.
func (s *Session) AbortPrediction(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation == s.generation && s.inFlightGen == t.Generation {
		s.inFlight = false
	}
}

func (s *Session) Predicting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight && s.inFlightGen == s.generation
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View returns a snapshot together with the image it was taken against, so
// a rendered overlay never mixes boxes from one image with pixels of another.
func (s *Session) View() (SessionSnapshot, entity.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return s.snapshot(), entity.Image{}, false
	}
	return s.snapshot(), *s.image, true
}

func (s *Session) snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		ID:          s.id,
		Generation:  s.generation,
		Tags:        s.vocab,
		SelectedTag: s.selected,
		Predicting:  s.inFlight && s.inFlightGen == s.generation,
		DrawState:   s.draw.State().String(),
		Boxes:       s.store.Snapshot(),
		UpdatedAt:   s.updatedAt,
	}
	if s.image != nil {
		snap.Image = &ImageInfo{
			Width:    s.image.Width,
			Height:   s.image.Height,
			Filename: s.image.Filename,
			Format:   s.image.Format,
		}
	}
	if d, ok := s.draw.Draft(); ok {
		snap.Draft = &d
	}
	return snap
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
