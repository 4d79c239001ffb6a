package cache

import (
	"encoding/json"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Entry is the value stored for a fetched asset
type Entry struct {
	URL         string    `json:"url"`
	Content     []byte    `json:"content"`
	ContentType string    `json:"content_type"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired returns true if the entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the remaining time-to-live
func (e *Entry) TTL() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Encode serializes the entry for storage
func (e *Entry) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEntry parses a stored entry
func DecodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Options contains cache configuration options
type Options struct {
	Directory  string
	InMemory   bool
	Logger     bool
	GCInterval time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory:  "",
		InMemory:   false,
		Logger:     false,
		GCInterval: 5 * time.Minute,
	}
}
