package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"chulgyeol-backend/internal/student"
	"chulgyeol-backend/internal/upload"
)

// ===== Error model (same shape as the student package) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotRegistered   Code = "NOT_REGISTERED"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeDownloadFailed  Code = "DOWNLOAD_FAILED"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string     { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

// User-facing rejections carry the bot's reply text as the message.
func errNotRegistered() *APIError {
	return &APIError{Code: CodeNotRegistered, Message: "❗ 먼저 /학생등록 으로 정보를 등록해주세요."}
}
func errUnauthorized() *APIError {
	return &APIError{Code: CodeUnauthorized, Message: "❌ 교사 역할만 사용 가능합니다."}
}
func errDownloadFailed() *APIError {
	return &APIError{Code: CodeDownloadFailed, Message: "❗ 첨부파일 다운로드에 실패했습니다. 다시 시도해주세요."}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeUnauthorized:
			return 403
		case CodeNotRegistered:
			return 422
		case CodeDownloadFailed:
			return 502
		default:
			return 500
		}
	}
	return 500
}

// ===== Collaborator contracts =====

type AttendanceStore interface {
	Insert(ctx context.Context, rec Record) error
	Today(ctx context.Context) ([]TodayRow, error)
	MonthlyStats(ctx context.Context) ([]StatsRow, error)
	ListByUser(ctx context.Context, userID string, status *Status) ([]Record, error)
	OpenSickLeave(ctx context.Context, userID string) error
	HasOpenSickLeave(ctx context.Context, userID string, notBefore time.Time) (bool, error)
	ConsumeSickLeave(ctx context.Context, userID string, notBefore time.Time, rec Record) (bool, error)
}

type StudentDirectory interface {
	GetByID(ctx context.Context, userID string) (*student.Student, error)
}

// RoleChecker resolves the caller's current role set; never cached.
type RoleChecker interface {
	HasRole(ctx context.Context, userID, name string) (bool, error)
}

// Uploader persists an attachment and returns its public URL. Remove undoes
// a Save whose record never landed.
type Uploader interface {
	Save(ctx context.Context, userID, originalName, sourceURL string) (string, error)
	Remove(fileURL string) error
}

// ===== Service =====

type Options struct {
	TeacherRole string
	BaseURL     string
	PendingTTL  time.Duration
}

type Service struct {
	store    AttendanceStore
	students StudentDirectory
	roles    RoleChecker
	uploader Uploader
	opts     Options
}

func NewService(d *sql.DB, students StudentDirectory, roles RoleChecker, uploader Uploader, opts Options) *Service {
	return NewServiceWithStore(NewStore(d), students, roles, uploader, opts)
}

func NewServiceWithStore(store AttendanceStore, students StudentDirectory, roles RoleChecker, uploader Uploader, opts Options) *Service {
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 24 * time.Hour
	}
	return &Service{store: store, students: students, roles: roles, uploader: uploader, opts: opts}
}

// ReportLate records one LATE row for a registered caller.
func (s *Service) ReportLate(ctx context.Context, in ReportRequest) (ReportResponse, error) {
	return s.report(ctx, StatusLate, in)
}

// ReportAbsent records one ABSENT row for a registered caller.
func (s *Service) ReportAbsent(ctx context.Context, in ReportRequest) (ReportResponse, error) {
	return s.report(ctx, StatusAbsent, in)
}

func (s *Service) report(ctx context.Context, status Status, in ReportRequest) (ReportResponse, error) {
	st, err := s.students.GetByID(ctx, in.UserID)
	if err != nil {
		return ReportResponse{}, err
	}
	if st == nil {
		return ReportResponse{}, errNotRegistered()
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = DefaultReason
	}

	rec := Record{UserID: in.UserID, Status: status, Reason: reason}
	if err := s.store.Insert(ctx, rec); err != nil {
		return ReportResponse{}, err
	}

	return ReportResponse{
		Status:  status,
		Content: fmt.Sprintf("✅ %s이 등록되었습니다.", status.Label()),
	}, nil
}

// OpenSickLeave starts the two-phase sick-leave flow: no record yet, just an
// expiring pending request plus the upload instruction.
func (s *Service) OpenSickLeave(ctx context.Context, in SickLeaveRequest) (ReportResponse, error) {
	st, err := s.students.GetByID(ctx, in.UserID)
	if err != nil {
		return ReportResponse{}, err
	}
	if st == nil {
		return ReportResponse{}, errNotRegistered()
	}

	if err := s.store.OpenSickLeave(ctx, in.UserID); err != nil {
		return ReportResponse{}, err
	}

	return ReportResponse{
		Content: "🧾 병결 확인서를 이 채널에 파일로 첨부해주세요. (이미지 또는 PDF 형식)",
	}, nil
}

// HandleMessage completes the sick-leave flow when an attachment-bearing
// message matches an open request. Returns (nil, nil) for every ignorable
// message: bot authors, no attachments, unregistered callers, no open
// request. Those are no-ops, not errors.
func (s *Service) HandleMessage(ctx context.Context, in MessageRequest) (*MessageResponse, error) {
	if in.Bot || len(in.Attachments) == 0 {
		return nil, nil
	}

	st, err := s.students.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}

	notBefore := time.Now().Add(-s.opts.PendingTTL)
	open, err := s.store.HasOpenSickLeave(ctx, in.UserID, notBefore)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, nil
	}

	file := in.Attachments[0]
	fileURL, err := s.uploader.Save(ctx, in.UserID, file.Name, file.URL)
	if err != nil {
		var dl *upload.DownloadError
		if errors.As(err, &dl) {
			return nil, errDownloadFailed()
		}
		return nil, err
	}

	rec := Record{
		UserID:  in.UserID,
		Status:  StatusSickLeave,
		Reason:  SickLeaveReason,
		FileURL: &fileURL,
	}
	consumed, err := s.store.ConsumeSickLeave(ctx, in.UserID, notBefore, rec)
	if err != nil {
		_ = s.uploader.Remove(fileURL)
		return nil, err
	}
	if !consumed {
		// lost the race with another upload from the same caller; drop the
		// orphaned file
		_ = s.uploader.Remove(fileURL)
		return nil, nil
	}

	return &MessageResponse{
		Status:  StatusSickLeave,
		FileURL: fileURL,
		Content: "✅ 병결 및 파일이 등록되었습니다.",
	}, nil
}

// TodayView builds the teacher-only daily roster. The role set is fetched
// fresh; on rejection no query runs.
func (s *Service) TodayView(ctx context.Context, callerID string) (ViewResponse, error) {
	if err := s.requireTeacher(ctx, callerID); err != nil {
		return ViewResponse{}, err
	}

	rows, err := s.store.Today(ctx)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{Count: len(rows), Content: BuildTodayView(rows)}, nil
}

// MonthlyView builds the teacher-only monthly tally.
func (s *Service) MonthlyView(ctx context.Context, callerID string) (ViewResponse, error) {
	if err := s.requireTeacher(ctx, callerID); err != nil {
		return ViewResponse{}, err
	}

	rows, err := s.store.MonthlyStats(ctx)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{Count: len(rows), Content: BuildMonthlyView(rows)}, nil
}

// MyView builds the caller's own history with an optional status filter.
func (s *Service) MyView(ctx context.Context, userID, filterStr string) (ViewResponse, error) {
	if userID == "" {
		return ViewResponse{}, ErrInvalid("user_id is required")
	}
	filter, ok := ParseFilter(filterStr)
	if !ok {
		return ViewResponse{}, ErrInvalid("status must be one of ALL, LATE, ABSENT, SICK_LEAVE")
	}

	records, err := s.store.ListByUser(ctx, userID, filter)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{Count: len(records), Content: BuildMyView(records, filter, s.opts.BaseURL)}, nil
}

func (s *Service) requireTeacher(ctx context.Context, callerID string) error {
	if callerID == "" {
		return ErrInvalid("user_id is required")
	}
	ok, err := s.roles.HasRole(ctx, callerID, s.opts.TeacherRole)
	if err != nil {
		return err
	}
	if !ok {
		return errUnauthorized()
	}
	return nil
}
