package annotationRepository

import (
	"UIAnnotator/pkg/canvas"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// Repository keeps live sessions in memory. Nothing survives a restart.
type Repository interface {
	Save(session *canvas.Session)
	Get(id string) (*canvas.Session, bool)
	Delete(id string) bool
	Count() int
	SweepIdle(before time.Time) int
}

type repository struct {
	sessions map[string]*canvas.Session
	mu       sync.RWMutex
	log      *logrus.Logger
}

func New(log *logrus.Logger) Repository {
	return &repository{
		sessions: make(map[string]*canvas.Session),
		log:      log,
	}
}

func (r *repository) Save(session *canvas.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

func (r *repository) Get(id string) (*canvas.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, exists := r.sessions[id]
	return session, exists
}

func (r *repository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; !exists {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepIdle drops every session whose last activity is before the cutoff.
func (r *repository) SweepIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.UpdatedAt().Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		r.log.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(r.sessions),
		}).Info("Swept idle sessions")
	}

	return removed
}
