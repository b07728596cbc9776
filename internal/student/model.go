package student

// Student mirrors the students table. UserID is the chat-platform identity.
type Student struct {
	UserID string
	Name   string
	Grade  int
	Class  int
	Number int
}

func (s Student) toDTO() StudentResponse {
	return StudentResponse{
		UserID: s.UserID,
		Name:   s.Name,
		Grade:  s.Grade,
		Class:  s.Class,
		Number: s.Number,
	}
}
