// Package session persists per-user conversation history.
//
// Histories are keyed by the external user id (the WhatsApp id in the
// original deployment) and stored durably in SQLite. The History value
// is copy-on-write: Append returns a new value and never mutates the
// receiver, so a loaded history can be shared freely across goroutines.
package session

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	// RoleSystem marks the priming instruction sent on first contact.
	RoleSystem Role = "system"

	// RoleUser marks inbound guest turns (possibly context-enhanced).
	RoleUser Role = "user"

	// RoleAssistant marks model replies.
	RoleAssistant Role = "assistant"
)

// Entry is one turn of a conversation.
type Entry struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History is an ordered conversation transcript. The zero value is an
// empty history, which doubles as the NEW-session starting point.
type History struct {
	entries []Entry
}

// NewHistory creates a History holding a copy of entries.
func NewHistory(entries ...Entry) History {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return History{entries: cp}
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the transcript in order.
func (h History) Entries() []Entry {
	cp := make([]Entry, len(h.entries))
	copy(cp, h.entries)
	return cp
}

// Append returns a new History with entries added at the end. The
// receiver is left unchanged.
func (h History) Append(entries ...Entry) History {
	merged := make([]Entry, 0, len(h.entries)+len(entries))
	merged = append(merged, h.entries...)
	merged = append(merged, entries...)
	return History{entries: merged}
}

// MarshalJSON encodes the transcript as a JSON array of entries.
func (h History) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

// UnmarshalJSON decodes a JSON array of entries.
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	h.entries = entries
	return nil
}
