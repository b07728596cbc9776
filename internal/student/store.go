package student

import (
	"context"
	"database/sql"
	"errors"

	"chulgyeol-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(d db.DBTX) *Store { return &Store{db: d} }

// Upsert inserts the student or overwrites every field of an existing row.
// Re-registration is a full replace, not an error.
func (s *Store) Upsert(ctx context.Context, st Student) error {
	const q = `
	INSERT INTO students (user_id, name, grade, class, number)
	VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	name   = VALUES(name),
	grade  = VALUES(grade),
	class  = VALUES(class),
	number = VALUES(number)`

	_, err := s.db.ExecContext(ctx, q, st.UserID, st.Name, st.Grade, st.Class, st.Number)
	return err
}

// GetByID returns (nil, nil) when the student is not registered.
func (s *Store) GetByID(ctx context.Context, userID string) (*Student, error) {
	const q = `
	SELECT user_id, name, grade, class, number
	FROM students
	WHERE user_id = ?
	LIMIT 1`

	var st Student
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&st.UserID, &st.Name, &st.Grade, &st.Class, &st.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
