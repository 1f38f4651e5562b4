package domain

import "reflect"

// SessionDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on stream subscribers.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Algorithm   *string `json:"algorithm,omitempty"`
	Index       *int    `json:"index,omitempty"`
	Fingerprint *string `json:"fingerprint,omitempty"`

	// Input is sent whole when any key changed; inputs are tiny.
	Input map[string]any `json:"input,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession (initial load).
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}

	if oldSession == nil || oldSession.Algorithm != newSession.Algorithm {
		diff.Algorithm = &newSession.Algorithm
	}
	if oldSession == nil || oldSession.Index != newSession.Index {
		diff.Index = &newSession.Index
	}
	if oldSession == nil || oldSession.Fingerprint != newSession.Fingerprint {
		if newSession.Fingerprint != "" || oldSession != nil {
			diff.Fingerprint = &newSession.Fingerprint
		}
	}
	if oldSession == nil {
		if len(newSession.Input) > 0 {
			diff.Input = newSession.Input
		}
	} else if !reflect.DeepEqual(oldSession.Input, newSession.Input) {
		diff.Input = newSession.Input
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.Algorithm == nil &&
		d.Index == nil &&
		d.Fingerprint == nil &&
		len(d.Input) == 0
}
