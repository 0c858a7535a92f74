package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// MaterialRepo is the PostgreSQL implementation of
// domain.MaterialRepository.
type MaterialRepo struct {
	pool *pgxpool.Pool
}

// NewMaterialRepo creates a postgres MaterialRepo.
func NewMaterialRepo(pool *pgxpool.Pool) *MaterialRepo {
	return &MaterialRepo{pool: pool}
}

const materialColumns = `
	id, title, module, year, type, description, file_url, link,
	downloads, uploaded_at, uploader_id
`

// List returns materials matching the filter, newest upload first.
func (r *MaterialRepo) List(ctx context.Context, f domain.MaterialFilter) ([]domain.Material, error) {
	query := "SELECT " + materialColumns + " FROM study_materials"

	var conditions []string
	var args []any

	if f.Module != "" {
		args = append(args, f.Module)
		conditions = append(conditions, fmt.Sprintf("module = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += fmt.Sprintf(" ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	materials := []domain.Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

// Get fetches a single material.
func (r *MaterialRepo) Get(ctx context.Context, id int64) (*domain.Material, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+materialColumns+" FROM study_materials WHERE id = $1", id)
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Create inserts a material metadata row.
func (r *MaterialRepo) Create(ctx context.Context, in domain.CreateMaterialInput) (*domain.Material, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO study_materials (title, module, year, type, description, file_url, link, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+materialColumns,
		in.Title, in.Module, in.Year, in.Type, in.Description, in.FileURL, in.Link, in.UploaderID)
	m, err := scanMaterial(row)
	if err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}
	return m, nil
}

// IncrementDownloads bumps the download counter by one.
func (r *MaterialRepo) IncrementDownloads(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE study_materials SET downloads = downloads + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	return nil
}

// HasUploaded reports whether the student has ever uploaded.
func (r *MaterialRepo) HasUploaded(ctx context.Context, studentID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM study_uploads WHERE stu_id = $1)`, studentID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has uploaded: %w", err)
	}
	return ok, nil
}

// RecordUpload marks the student as an uploader, once.
func (r *MaterialRepo) RecordUpload(ctx context.Context, studentID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO study_uploads (stu_id) VALUES ($1)
		ON CONFLICT (stu_id) DO NOTHING
	`, studentID)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

func scanMaterial(row scannable) (*domain.Material, error) {
	var m domain.Material
	var module, typ, description, fileURL, link *string
	err := row.Scan(&m.ID, &m.Title, &module, &m.Year, &typ, &description,
		&fileURL, &link, &m.Downloads, &m.UploadedAt, &m.UploaderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	if module != nil {
		m.Module = *module
	}
	if typ != nil {
		m.Type = *typ
	}
	if description != nil {
		m.Description = *description
	}
	if fileURL != nil {
		m.FileURL = *fileURL
	}
	if link != nil {
		m.Link = *link
	}
	return &m, nil
}
