package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/utils"
	"github.com/uyouii/mollifier/view"
)

// Session owns one live view per configured preset.
type Session struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Views   []string  `json:"views"`

	views map[string]view.View
}

func (s *Session) View(name string) (view.View, error) {
	v, ok := s.views[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, common.ErrorUnknownView)
	}
	return v, nil
}

func (s *Session) Close() {
	for _, v := range s.views {
		v.Close()
	}
}

type SessionStore struct {
	presets map[string]view.Preset
	opts    view.Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(presets map[string]view.Preset, opts view.Options) *SessionStore {
	return &SessionStore{
		presets:  presets,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

func (st *SessionStore) Create(ctx context.Context) (*Session, error) {
	sess := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Views:   view.Names(st.presets),
		views:   make(map[string]view.View, len(st.presets)),
	}
	for _, name := range sess.Views {
		v, err := view.New(name, st.presets[name], st.opts)
		if err != nil {
			sess.Close()
			return nil, err
		}
		sess.views[name] = v
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	utils.GetLogger(ctx).Info("session created", zap.String("session", sess.ID))
	return sess, nil
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, common.ErrorSessionNotFound)
	}
	return sess, nil
}

// Delete stops the session's background work and forgets it.
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", id, common.ErrorSessionNotFound)
	}
	sess.Close()
	utils.GetLogger(ctx).Info("session deleted", zap.String("session", id))
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *SessionStore) CloseAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}
