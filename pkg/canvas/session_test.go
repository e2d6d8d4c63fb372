package canvas

import (
	"testing"

	"UIAnnotator/internal/entity"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("test", entity.DefaultVocabulary)
}

func loadImage(s *Session, name string) uint64 {
	return s.LoadImage(entity.Image{Width: 200, Height: 100, Filename: name, Format: "png"})
}

func drag(s *Session, from, to entity.Point) PointerResult {
	s.Pointer(PointerEvent{Kind: PointerDown, Point: from})
	s.Pointer(PointerEvent{Kind: PointerMove, Point: to})
	return s.Pointer(PointerEvent{Kind: PointerUp, Point: to})
}

func TestPointerDownWithoutImageIsIgnored(t *testing.T) {
	s := newTestSession(t)

	res := s.Pointer(PointerEvent{Kind: PointerDown, Point: entity.Point{X: 1, Y: 1}})
	require.False(t, res.Accepted)
	require.Equal(t, "idle", s.Snapshot().DrawState)

	res = s.Pointer(PointerEvent{Kind: PointerUp, Point: entity.Point{X: 9, Y: 9}})
	require.False(t, res.Accepted)
	require.Empty(t, s.Snapshot().Boxes.User)
}

func TestStrayMoveAndUpAreIgnored(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	require.False(t, s.Pointer(PointerEvent{Kind: PointerMove, Point: entity.Point{X: 3, Y: 3}}).Accepted)
	require.False(t, s.Pointer(PointerEvent{Kind: PointerUp, Point: entity.Point{X: 3, Y: 3}}).Accepted)
	require.Empty(t, s.Snapshot().Boxes.User)
}

func TestDrawCommitsUserBox(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")
	require.NoError(t, s.SelectTag("input"))

	res := drag(s, entity.Point{X: 5, Y: 5}, entity.Point{X: 25, Y: 15})
	require.True(t, res.Accepted)
	require.NotNil(t, res.Committed)

	snap := s.Snapshot()
	require.Equal(t, []entity.Box{{
		Annotation: entity.Annotation{Coordinates: entity.Coordinates{5, 5, 25, 15}, Tag: "input"},
		Source:     entity.SourceUser,
	}}, snap.Boxes.User)
	require.Nil(t, snap.Draft)
	require.Equal(t, "idle", snap.DrawState)
}

func TestDraftStaysRawWhileDragging(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	s.Pointer(PointerEvent{Kind: PointerDown, Point: entity.Point{X: 50, Y: 40}})
	s.Pointer(PointerEvent{Kind: PointerMove, Point: entity.Point{X: 10, Y: 20}})

	snap := s.Snapshot()
	require.NotNil(t, snap.Draft)
	require.Equal(t, entity.Point{X: 50, Y: 40}, snap.Draft.Start)
	require.Equal(t, entity.Point{X: 10, Y: 20}, snap.Draft.End)
	require.Equal(t, "dragging", snap.DrawState)
}

func TestDegenerateDraftIsDiscarded(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	res := drag(s, entity.Point{X: 5, Y: 5}, entity.Point{X: 5, Y: 5})
	require.True(t, res.Discarded)
	require.Nil(t, res.Committed)

	res = drag(s, entity.Point{X: 5, Y: 5}, entity.Point{X: 40, Y: 5})
	require.True(t, res.Discarded)

	snap := s.Snapshot()
	require.Empty(t, snap.Boxes.User)
	require.Nil(t, snap.Draft)
}

func TestCommitClampsToImage(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	res := drag(s, entity.Point{X: 150, Y: 50}, entity.Point{X: 260, Y: 140})
	require.NotNil(t, res.Committed)
	require.Equal(t, entity.Coordinates{150, 50, 200, 100}, res.Committed.Coordinates)

	res = drag(s, entity.Point{X: 210, Y: 10}, entity.Point{X: 260, Y: 40})
	require.True(t, res.Discarded)
}

func TestSelectUnknownTag(t *testing.T) {
	s := newTestSession(t)
	require.ErrorIs(t, s.SelectTag("slider"), ErrUnknownTag)
	require.Equal(t, entity.Tag("button"), s.SelectedTag())
}

func TestLoadImageClearsCollections(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")
	drag(s, entity.Point{X: 1, Y: 1}, entity.Point{X: 9, Y: 9})
	ticket, _, err := s.BeginPrediction()
	require.NoError(t, err)
	_, err = s.CompletePrediction(ticket, []entity.Annotation{annotation(1, 1, 9, 9, "radio")})
	require.NoError(t, err)
	s.Pointer(PointerEvent{Kind: PointerDown, Point: entity.Point{X: 3, Y: 3}})

	loadImage(s, "b.png")
	snap := s.Snapshot()
	require.Empty(t, snap.Boxes.User)
	require.Empty(t, snap.Boxes.Prediction)
	require.Nil(t, snap.Draft)
	require.Equal(t, "b.png", snap.Image.Filename)
}

func TestPredictionLifecycle(t *testing.T) {
	s := newTestSession(t)

	_, _, err := s.BeginPrediction()
	require.ErrorIs(t, err, ErrNoImage)

	loadImage(s, "a.png")
	ticket, img, err := s.BeginPrediction()
	require.NoError(t, err)
	require.Equal(t, "a.png", img.Filename)
	require.True(t, s.Predicting())

	_, _, err = s.BeginPrediction()
	require.ErrorIs(t, err, ErrPredictionInFlight)

	boxes, err := s.CompletePrediction(ticket, []entity.Annotation{annotation(1, 1, 9, 9, "radio")})
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	require.Equal(t, entity.SourcePrediction, boxes[0].Source)
	require.False(t, s.Predicting())

	ticket, _, err = s.BeginPrediction()
	require.NoError(t, err)
	_, err = s.CompletePrediction(ticket, []entity.Annotation{})
	require.NoError(t, err)
	require.Empty(t, s.Snapshot().Boxes.Prediction)
}

func TestFailedPredictionKeepsPreviousSet(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	ticket, _, err := s.BeginPrediction()
	require.NoError(t, err)
	_, err = s.CompletePrediction(ticket, []entity.Annotation{annotation(1, 1, 9, 9, "radio")})
	require.NoError(t, err)

	ticket, _, err = s.BeginPrediction()
	require.NoError(t, err)
	s.AbortPrediction(ticket)

	require.False(t, s.Predicting())
	require.Len(t, s.Snapshot().Boxes.Prediction, 1)

	_, _, err = s.BeginPrediction()
	require.NoError(t, err)
}

func TestStalePredictionIsDropped(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")

	stale, _, err := s.BeginPrediction()
	require.NoError(t, err)

	loadImage(s, "b.png")
	require.False(t, s.Predicting())

	fresh, _, err := s.BeginPrediction()
	require.NoError(t, err)

	_, err = s.CompletePrediction(stale, []entity.Annotation{annotation(1, 1, 9, 9, "radio")})
	require.ErrorIs(t, err, ErrStalePrediction)
	require.Empty(t, s.Snapshot().Boxes.Prediction)

	s.AbortPrediction(stale)
	require.True(t, s.Predicting(), "stale abort must not release the new image's request")

	_, err = s.CompletePrediction(fresh, []entity.Annotation{annotation(2, 2, 8, 8, "input")})
	require.NoError(t, err)
	require.Len(t, s.Snapshot().Boxes.Prediction, 1)
}

func TestSessionDeleteBox(t *testing.T) {
	s := newTestSession(t)
	loadImage(s, "a.png")
	drag(s, entity.Point{X: 1, Y: 1}, entity.Point{X: 9, Y: 9})
	drag(s, entity.Point{X: 10, Y: 10}, entity.Point{X: 19, Y: 19})

	_, err := s.DeleteBox(entity.SourceUser, 0)
	require.NoError(t, err)
	user := s.Snapshot().Boxes.User
	require.Len(t, user, 1)
	require.Equal(t, entity.Coordinates{10, 10, 19, 19}, user[0].Coordinates)

	_, err = s.DeleteBox(entity.SourceUser, 1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPointerKindNames(t *testing.T) {
	for _, name := range []string{"down", "move", "up"} {
		kind, err := ParsePointerKind(name)
		require.NoError(t, err)
		require.Equal(t, name, kind.String())
	}

	_, err := ParsePointerKind("hover")
	require.Error(t, err)
	require.Equal(t, "unknown", PointerKind(0).String())
}
