package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// ModuleRepo is the PostgreSQL implementation of domain.ModuleRepository.
type ModuleRepo struct {
	pool *pgxpool.Pool
}

// NewModuleRepo creates a postgres ModuleRepo.
func NewModuleRepo(pool *pgxpool.Pool) *ModuleRepo {
	return &ModuleRepo{pool: pool}
}

// List returns every module, oldest first.
func (r *ModuleRepo) List(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, code, course_id FROM modules ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	modules := []domain.Module{}
	for rows.Next() {
		var m domain.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.CourseID); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetByID fetches a single module.
func (r *ModuleRepo) GetByID(ctx context.Context, id int64) (*domain.Module, error) {
	var m domain.Module
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, code, course_id FROM modules WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Code, &m.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get module: %w", err)
	}
	return &m, nil
}

// Subscribe inserts a subscription grant; the unique (student, module)
// constraint makes duplicates an insert-ignore no-op.
func (r *ModuleRepo) Subscribe(ctx context.Context, studentID, moduleID int64) (*domain.Subscription, bool, error) {
	var sub domain.Subscription
	err := r.pool.QueryRow(ctx, `
		INSERT INTO student_subscriptions (student_id, module_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, module_id) DO NOTHING
		RETURNING id, student_id, module_id, created_at
	`, studentID, moduleID).Scan(&sub.ID, &sub.StudentID, &sub.ModuleID, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already subscribed — idempotent.
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("insert subscription: %w", err)
	}
	return &sub, true, nil
}

// Subscriptions lists a student's subscription grants, newest first.
func (r *ModuleRepo) Subscriptions(ctx context.Context, studentID int64) ([]domain.Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ss.id, m.name, m.code, ss.created_at
		FROM student_subscriptions ss
		JOIN modules m ON ss.module_id = m.id
		WHERE ss.student_id = $1
		ORDER BY ss.created_at DESC
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []domain.Subscription{}
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.ID, &s.ModuleName, &s.ModuleCode, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Unsubscribe removes a subscription grant by id.
func (r *ModuleRepo) Unsubscribe(ctx context.Context, subscriptionID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM student_subscriptions WHERE id = $1
	`, subscriptionID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GrantEnrollment upserts an enrollment grant.
func (r *ModuleRepo) GrantEnrollment(ctx context.Context, studentID, moduleID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO student_modules (student_id, module_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, module_id) DO NOTHING
	`, studentID, moduleID)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}
