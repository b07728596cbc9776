package attendance

const (
	// Sentinel reasons, verbatim from the bot's replies.
	DefaultReason   = "사유 없음"
	SickLeaveReason = "병결 확인서 제출"
)

// Status is the closed set of attendance states. Stored as-is; rendered with
// the Korean display label.
type Status string

const (
	StatusLate      Status = "LATE"
	StatusAbsent    Status = "ABSENT"
	StatusSickLeave Status = "SICK_LEAVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusLate, StatusAbsent, StatusSickLeave:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusLate:
		return "지각"
	case StatusAbsent:
		return "결석"
	case StatusSickLeave:
		return "병결"
	}
	return string(s)
}

// FilterAll means no status filter on the personal view.
const FilterAll = "ALL"

// ParseFilter maps the my-attendance option to an optional status.
// Empty and ALL both mean unfiltered.
func ParseFilter(v string) (*Status, bool) {
	if v == "" || v == FilterAll {
		return nil, true
	}
	st := Status(v)
	if !st.Valid() {
		return nil, false
	}
	return &st, true
}

// FilterLabel renders the filter for the personal view header.
func FilterLabel(filter *Status) string {
	if filter == nil {
		return "전체"
	}
	return filter.Label()
}

// ---------- requests ----------

type ReportRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Reason string `json:"reason"`
}

type SickLeaveRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// MessageRequest is a non-command message forwarded by the gateway.
type MessageRequest struct {
	UserID      string       `json:"user_id" binding:"required"`
	Bot         bool         `json:"bot"`
	Attachments []Attachment `json:"attachments"`
}

// ---------- responses ----------

type ReportResponse struct {
	Status  Status `json:"status,omitempty"`
	Content string `json:"content"`
}

type MessageResponse struct {
	Status  Status `json:"status"`
	FileURL string `json:"file_url"`
	Content string `json:"content"`
}

type ViewResponse struct {
	Count   int    `json:"count"`
	Content string `json:"content"`
}
