package model

import "time"

// NoticeLevel classifies a notice shown in the status area.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a short, user-visible message about the outcome of an action.
type Notice struct {
	// Level selects how the notice is rendered.
	Level NoticeLevel

	// Message is the human-readable text.
	Message string

	// CreatedAt is when the notice was raised.
	CreatedAt time.Time
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Level == NoticeError
}
