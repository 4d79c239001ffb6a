package loader

import (
	"sync"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// Outcome is the result of resolving one asset or invoking one handler
type Outcome string

// Asset and handler outcomes
const (
	OutcomeLoaded  Outcome = "loaded"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	OutcomeMissing Outcome = "missing"
	OutcomeOK      Outcome = "ok"
)

// ReasonNotFound is the record reason for assets answering 404 or 410
const ReasonNotFound = "not found"

// AssetRecord describes what happened to one manifest descriptor
type AssetRecord struct {
	Path    string  `json:"path"`
	Type    string  `json:"type"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// HandlerRecord describes one handler invocation
type HandlerRecord struct {
	Handler  string        `json:"handler"`
	Resolved string        `json:"resolved,omitempty"`
	Path     string        `json:"path"`
	Outcome  Outcome       `json:"outcome"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report records per-session outcomes. It is safe for concurrent use.
type Report struct {
	mu sync.Mutex

	Manifest   string          `json:"manifest"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Assets     []AssetRecord   `json:"assets"`
	Handlers   []HandlerRecord `json:"handlers"`

	handlerErrs []*domain.HandlerError
}

// NewReport creates an empty report for a manifest location
func NewReport(manifest string) *Report {
	return &Report{
		Manifest:  manifest,
		StartedAt: time.Now(),
		Assets:    []AssetRecord{},
		Handlers:  []HandlerRecord{},
	}
}

func (r *Report) addAsset(rec AssetRecord) {
	r.mu.Lock()
	r.Assets = append(r.Assets, rec)
	r.mu.Unlock()
}

func (r *Report) addHandler(rec HandlerRecord, err *domain.HandlerError) {
	r.mu.Lock()
	r.Handlers = append(r.Handlers, rec)
	if err != nil {
		r.handlerErrs = append(r.handlerErrs, err)
	}
	r.mu.Unlock()
}

func (r *Report) finish() {
	r.mu.Lock()
	r.FinishedAt = time.Now()
	r.mu.Unlock()
}

// Counts returns the number of loaded, skipped and failed assets
func (r *Report) Counts() (loaded, skipped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Assets {
		switch a.Outcome {
		case OutcomeLoaded:
			loaded++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return loaded, skipped, failed
}

// HandlerErrors returns the errors recorded for failed handlers
func (r *Report) HandlerErrors() []*domain.HandlerError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.HandlerError(nil), r.handlerErrs...)
}

// Duration returns how long the session ran; zero until it finishes
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
