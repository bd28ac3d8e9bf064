package model

import "time"

// EligibilitySubmission is the completed answer trail of one eligibility flow
// session. Written by the background persist worker after the flow reaches a
// terminal verdict; the live AnswerSet itself lives in redis while a session
// is in flight.
type EligibilitySubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Verdict   string    `gorm:"size:16;not null;index" json:"verdict"`
	Answers   string    `gorm:"type:text;not null" json:"answers"` // JSON-encoded AnswerSet
	CreatedAt time.Time `json:"created_at"`
}
