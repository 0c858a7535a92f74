package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// StudentRepo resolves actor display fields.
type StudentRepo struct {
	pool *pgxpool.Pool
}

// NewStudentRepo creates a postgres StudentRepo.
func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

// DisplayAuthor returns the student's display fields, degrading to the
// "Unknown" placeholder when the student is missing.
func (r *StudentRepo) DisplayAuthor(ctx context.Context, studentID int64) (domain.Author, error) {
	a := domain.Author{ID: studentID, FirstName: "Unknown"}

	var firstName, lastName *string
	err := r.pool.QueryRow(ctx, `
		SELECT first_name, last_name, avatar FROM student WHERE stu_id = $1
	`, studentID).Scan(&firstName, &lastName, &a.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, nil
		}
		return a, fmt.Errorf("display author: %w", err)
	}

	if firstName != nil {
		a.FirstName = *firstName
	}
	if lastName != nil {
		a.LastName = *lastName
	}
	return a, nil
}
