// Package session keeps the statements and filter selection of each browser session in memory.
package session

import (
	"sync"
	"time"

	"github.com/etnz/camsfolio"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// State is what a session holds.
type State struct {
	Table  *camsfolio.Table
	Gaps   []camsfolio.Gap
	Errors []*camsfolio.FileError
	Filter *camsfolio.FilterState
}

// Session is the state of one browser session. Requests of a same session may be
// served concurrently, every access goes through Update.
type Session struct {
	ID string

	mu    sync.Mutex
	state State
}

// Update runs fn with exclusive access to the session state.
func (s *Session) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Load replaces the session table. The filter is created on the first load and
// reset whenever the table identity changes.
func (s *Session) Load(t *camsfolio.Table, gaps []camsfolio.Gap, errs []*camsfolio.FileError) {
	s.Update(func(st *State) {
		st.Table, st.Gaps, st.Errors = t, gaps, errs
		if st.Filter == nil {
			st.Filter = camsfolio.NewFilterState(t)
			return
		}
		if st.Filter.Sync(t) {
			logrus.WithField("session", s.ID).Debug("filter reset for a new table")
		}
	})
}

// Store holds sessions by id. A session expires after ttl without access.
type Store struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{c: cache.New(ttl, 2*ttl), ttl: ttl}
}

// New creates and stores an empty session.
func (st *Store) New() *Session {
	s := &Session{ID: uuid.NewString()}
	st.c.Set(s.ID, s, st.ttl)
	return s
}

// Get returns the session with id and extends its lifetime.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.c.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	st.c.Set(id, s, st.ttl)
	return s, true
}

// Delete forgets a session.
func (st *Store) Delete(id string) { st.c.Delete(id) }

// Len returns the number of live sessions.
func (st *Store) Len() int { return st.c.ItemCount() }
