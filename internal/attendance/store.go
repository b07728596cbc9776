package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chulgyeol-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

// Insert appends one attendance row dated today (server-local). Callers
// cannot backdate.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	const q = `
	INSERT INTO attendance (user_id, date, status, reason, file_url)
	VALUES (?, CURDATE(), ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q, rec.UserID, string(rec.Status), rec.Reason, rec.FileURL)
	return err
}

// Today returns all of today's rows joined to their students. No explicit
// ordering; the roster is small and rendered as-is.
func (s *Store) Today(ctx context.Context) ([]TodayRow, error) {
	const q = `
	SELECT s.grade, s.class, s.number, s.name, a.status, a.reason, a.file_url
	FROM attendance a
	JOIN students s ON a.user_id = s.user_id
	WHERE a.date = CURDATE()`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TodayRow
	for rows.Next() {
		var r TodayRow
		if err := rows.Scan(&r.Grade, &r.Class, &r.Number, &r.Name, &r.Status, &r.Reason, &r.FileURL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlyStats tallies late/absent per student for the current month.
// Sick leave is excluded from both sums.
func (s *Store) MonthlyStats(ctx context.Context) ([]StatsRow, error) {
	const q = `
	SELECT
		s.grade, s.class, s.number, s.name,
		SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS late,
		SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS absent
	FROM attendance a
	JOIN students s ON a.user_id = s.user_id
	WHERE DATE_FORMAT(a.date, '%Y-%m') = DATE_FORMAT(CURDATE(), '%Y-%m')
	GROUP BY s.grade, s.class, s.number, s.name
	ORDER BY s.grade, s.class, s.number`

	rows, err := s.db.QueryContext(ctx, q, string(StatusLate), string(StatusAbsent))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatsRow
	for rows.Next() {
		var r StatsRow
		if err := rows.Scan(&r.Grade, &r.Class, &r.Number, &r.Name, &r.Late, &r.Absent); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListByUser returns the caller's records, optionally filtered to one status,
// newest date first.
func (s *Store) ListByUser(ctx context.Context, userID string, status *Status) ([]Record, error) {
	q := `
	SELECT attendance_id, user_id, DATE_FORMAT(date, '%Y-%m-%d') AS date, status, reason, file_url
	FROM attendance
	WHERE user_id = ?`
	args := []any{userID}

	if status != nil {
		q += ` AND status = ?`
		args = append(args, string(*status))
	}
	q += ` ORDER BY date DESC, attendance_id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.Status, &r.Reason, &r.FileURL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OpenSickLeave opens (or refreshes) the caller's pending sick-leave request.
func (s *Store) OpenSickLeave(ctx context.Context, userID string) error {
	const q = `
	INSERT INTO sick_leave_requests (user_id, requested_at)
	VALUES (?, NOW(6))
	ON DUPLICATE KEY UPDATE requested_at = VALUES(requested_at)`

	_, err := s.db.ExecContext(ctx, q, userID)
	return err
}

// HasOpenSickLeave reports whether the caller has an unexpired request.
func (s *Store) HasOpenSickLeave(ctx context.Context, userID string, notBefore time.Time) (bool, error) {
	const q = `
	SELECT 1 FROM sick_leave_requests
	WHERE user_id = ? AND requested_at >= ?
	LIMIT 1`

	var one int
	err := s.db.QueryRowContext(ctx, q, userID, notBefore).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ConsumeSickLeave atomically closes the pending request and inserts the
// record. Returns false without writing when no unexpired request exists
// (e.g. a concurrent upload already consumed it).
func (s *Store) ConsumeSickLeave(ctx context.Context, userID string, notBefore time.Time, rec Record) (bool, error) {
	consumed := false
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, `
		DELETE FROM sick_leave_requests
		WHERE user_id = ? AND requested_at >= ?`, userID, notBefore)
		if err != nil {
			return err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if aff == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
		INSERT INTO attendance (user_id, date, status, reason, file_url)
		VALUES (?, CURDATE(), ?, ?, ?)`,
			userID, string(rec.Status), rec.Reason, rec.FileURL)
		if err != nil {
			return err
		}
		consumed = true
		return nil
	})
	return consumed, err
}
