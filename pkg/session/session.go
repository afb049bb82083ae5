// Package session holds the per-connection conversational state. One
// Session belongs to exactly one user connection and is never shared, so no
// locking is needed; it is discarded when the connection ends.
package session

import (
	"github.com/hmasato/statchat/pkg/tabular"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn, immutable once appended.
type Message struct {
	Role Role
	Text string
}

// Session is the explicit record behind the assistant's UI state. AdvisoryText,
// Charts, Table, and Transcript always belong to the file identified by
// ActiveFileID; Reset clears them together whenever the identity changes.
type Session struct {
	// ActiveFileID identifies the currently loaded upload (name + size).
	ActiveFileID string
	// FileName is the original upload name, kept for report naming.
	FileName string

	ExtractedText string
	Table         *tabular.Table
	AdvisoryText  string
	Charts        map[string][]byte
	Transcript    []Message
}

// New creates an empty session.
func New() *Session {
	return &Session{Charts: make(map[string][]byte)}
}

// Reset clears everything derived from the previous file and records the new
// identity. This is the single place session state is torn down; the upload
// trigger calls it exactly once, before extraction runs.
func (s *Session) Reset(fileID, fileName string) {
	s.ActiveFileID = fileID
	s.FileName = fileName
	s.ExtractedText = ""
	s.Table = nil
	s.AdvisoryText = ""
	s.Charts = make(map[string][]byte)
	s.Transcript = nil
}

// SetCharts replaces the chart cache with the rendered catalogue.
func (s *Session) SetCharts(charts []tabular.Chart) {
	s.Charts = make(map[string][]byte, len(charts))
	for _, c := range charts {
		s.Charts[c.Title] = c.PNG
	}
}

// AppendUser appends a user turn.
func (s *Session) AppendUser(text string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleUser, Text: text})
}

// AppendAssistant appends an assistant turn.
func (s *Session) AppendAssistant(text string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleAssistant, Text: text})
}

// HasContent reports whether an upload has been extracted successfully.
func (s *Session) HasContent() bool {
	return s.ExtractedText != ""
}
