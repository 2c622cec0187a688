package models

// Application statuses. Transitions are deliberately unchecked: this is a
// human-operated tracker and any status may be set from any other, which
// allows manual corrections (e.g. rejected back to sent after a mistake).
const (
	StatusPrepared = "prepared"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Application tracks the candidacy for a single posting. The job fields are
// denormalized copies taken at preparation time; the posting itself may be
// superseded by later snapshots without touching the application.
type Application struct {
	JobTitle        string  `json:"job_title"`
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	JobURL          string  `json:"job_url"`
	Source          string  `json:"source"`
	CoverLetterPath string  `json:"cover_letter_path"`
	CVPath          string  `json:"cv_path,omitempty"`
	Status          string  `json:"status"`
	PreparedAt      string  `json:"prepared_at"`
	SentAt          *string `json:"sent_at"`
	Notes           string  `json:"notes"`
}

// Statuses lists the known statuses in lifecycle order.
var Statuses = []string{StatusPrepared, StatusSent, StatusAccepted, StatusRejected}

// ValidStatus reports whether value is one of the four known statuses.
func ValidStatus(value string) bool {
	switch value {
	case StatusPrepared, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
