package state

import "time"

// StateVersion is the schema version for state file migration
const StateVersion = 1

// OutputState records the artifacts the last run left in an output directory
type OutputState struct {
	Version   int                      `json:"version"`
	Root      string                   `json:"root"`
	Manifest  string                   `json:"manifest"`
	LastRun   time.Time                `json:"last_run"`
	Artifacts map[string]ArtifactState `json:"artifacts"`
}

// ArtifactState describes one artifact, keyed by its slash-separated path
// relative to the output directory
type ArtifactState struct {
	WrittenAt time.Time `json:"written_at"`
	Size      int64     `json:"size"`
}

// NewOutputState creates a new empty state
func NewOutputState(root, manifest string) *OutputState {
	return &OutputState{
		Version:   StateVersion,
		Root:      root,
		Manifest:  manifest,
		LastRun:   time.Now(),
		Artifacts: make(map[string]ArtifactState),
	}
}

// ArtifactCount returns the number of tracked artifacts
func (s *OutputState) ArtifactCount() int {
	return len(s.Artifacts)
}

// HasArtifact checks if an artifact is tracked
func (s *OutputState) HasArtifact(rel string) bool {
	_, exists := s.Artifacts[rel]
	return exists
}
