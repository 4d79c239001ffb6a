package loader

import (
	"context"
	"sync"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// Result is what a finished session produced
type Result struct {
	Manifest *domain.Manifest
	Content  domain.ContentMap
	Report   *Report
}

// Session is one run of the load pipeline: manifest, content, handlers,
// completion. Each session owns its own content map.
type Session struct {
	loader   *Loader
	location string

	mu       sync.RWMutex
	manifest *domain.Manifest
	content  domain.ContentMap
	report   *Report

	completed    chan struct{}
	completeOnce sync.Once
	done         chan struct{}
	doneOnce     sync.Once
	err          error
}

func newSession(l *Loader, location string) *Session {
	return &Session{
		loader:    l,
		location:  location,
		content:   domain.ContentMap{},
		report:    NewReport(location),
		completed: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Location returns the manifest location this session loads
func (s *Session) Location() string {
	return s.location
}

// Completed is closed once, after every handler has been attempted.
// It is never closed when the manifest stage fails.
func (s *Session) Completed() <-chan struct{} {
	return s.completed
}

// Done is closed when the session ends, successfully or not
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends
func (s *Session) Wait() (*Result, error) {
	<-s.done
	if s.err != nil {
		return nil, s.err
	}
	return s.Result(), nil
}

// Err returns the error that ended the session, if any. It is only
// meaningful after Done is closed.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Result returns the session's current manifest, content and report
func (s *Session) Result() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Result{Manifest: s.manifest, Content: s.content, Report: s.report}
}

// Manifest returns the loaded manifest, or nil before the manifest stage succeeds
func (s *Session) Manifest() *domain.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// ContentData returns the live content map. Callers share it with the
// session; it is not copied.
func (s *Session) ContentData() domain.ContentMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Report returns the session report
func (s *Session) Report() *Report {
	return s.report
}

// LoadHandlers runs the handler stage again over the current content and
// then signals completion. Without a manifest it only signals completion.
func (s *Session) LoadHandlers(ctx context.Context) error {
	m := s.Manifest()
	if m == nil {
		s.complete()
		return nil
	}

	if err := s.loader.dispatcher.dispatch(ctx, m.Assets, s.ContentData(), s.report, s.loader.hooks); err != nil {
		return err
	}
	s.complete()
	return nil
}

func (s *Session) setManifest(m *domain.Manifest) {
	s.mu.Lock()
	s.manifest = m
	s.mu.Unlock()
}

func (s *Session) complete() {
	s.completeOnce.Do(func() {
		close(s.completed)
	})
}

func (s *Session) finish(err error) {
	s.doneOnce.Do(func() {
		s.err = err
		s.report.finish()
		close(s.done)
	})
}
