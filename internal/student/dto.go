package student

// Registration bounds. The original bot accepted any parseInt result; these
// make the accepted range explicit instead.
const (
	MinGrade = 1
	MaxGrade = 6
	MinClass = 1
	MaxClass = 99
	MinSeat  = 1
	MaxSeat  = 99
)

// RegisterStudentRequest carries the four modal fields as submitted, raw text
// included; the service parses and bounds-checks the numeric ones.
type RegisterStudentRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Grade  string `json:"grade" binding:"required"`
	Class  string `json:"class" binding:"required"`
	Number string `json:"number" binding:"required"`
}

type StudentResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Grade  int    `json:"grade"`
	Class  int    `json:"class"`
	Number int    `json:"number"`
}

type RegisterStudentResponse struct {
	Student StudentResponse `json:"student"`
	Content string          `json:"content"` // reply text for the gateway to relay
}
