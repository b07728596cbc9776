package student

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chulgyeol-backend/internal/platform/db"
)

// ===== Error model (same shape as the attendance package) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string     { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type StudentStore interface {
	Upsert(ctx context.Context, st Student) error
	GetByID(ctx context.Context, userID string) (*Student, error)
}

type Service struct {
	store StudentStore
}

func NewService(d db.DBTX) *Service {
	return &Service{store: NewStore(d)}
}

func NewServiceWithStore(store StudentStore) *Service {
	return &Service{store: store}
}

// Register parses the modal fields and upserts the student row.
func (s *Service) Register(ctx context.Context, in RegisterStudentRequest) (RegisterStudentResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return RegisterStudentResponse{}, ErrInvalid("name is required")
	}

	grade, err := parseBounded(in.Grade, MinGrade, MaxGrade)
	if err != nil {
		return RegisterStudentResponse{}, ErrInvalid(fmt.Sprintf("grade must be an integer between %d and %d", MinGrade, MaxGrade))
	}
	class, err := parseBounded(in.Class, MinClass, MaxClass)
	if err != nil {
		return RegisterStudentResponse{}, ErrInvalid(fmt.Sprintf("class must be an integer between %d and %d", MinClass, MaxClass))
	}
	number, err := parseBounded(in.Number, MinSeat, MaxSeat)
	if err != nil {
		return RegisterStudentResponse{}, ErrInvalid(fmt.Sprintf("number must be an integer between %d and %d", MinSeat, MaxSeat))
	}

	st := Student{
		UserID: in.UserID,
		Name:   name,
		Grade:  grade,
		Class:  class,
		Number: number,
	}
	if err := s.store.Upsert(ctx, st); err != nil {
		return RegisterStudentResponse{}, err
	}

	return RegisterStudentResponse{
		Student: st.toDTO(),
		Content: fmt.Sprintf("✅ %s님 정보가 등록되었습니다.", name),
	}, nil
}

// Get returns (nil, nil) for unregistered callers; absence is not an error.
func (s *Service) Get(ctx context.Context, userID string) (*Student, error) {
	if userID == "" {
		return nil, ErrInvalid("user_id is required")
	}
	return s.store.GetByID(ctx, userID)
}

func parseBounded(raw string, min, max int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, fmt.Errorf("out of range")
	}
	return v, nil
}
