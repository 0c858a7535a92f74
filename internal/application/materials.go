package application

import (
	"context"
	"fmt"

	"github.com/peerconnect/backend/internal/domain"
	"github.com/peerconnect/backend/internal/messages"
	"github.com/rs/zerolog/log"
)

// MaterialService holds the study-material use-cases. File bytes are
// handled by external object storage; only metadata lives here.
type MaterialService struct {
	repo     domain.MaterialRepository
	notifier *Notifier
}

// NewMaterialService wires the material use-cases.
func NewMaterialService(repo domain.MaterialRepository, notifier *Notifier) *MaterialService {
	return &MaterialService{repo: repo, notifier: notifier}
}

// List returns materials matching the filter.
func (s *MaterialService) List(ctx context.Context, f domain.MaterialFilter) ([]domain.Material, error) {
	f.Normalize()
	return s.repo.List(ctx, f)
}

// Upload records material metadata, marks the uploader for the download
// gate and announces the upload.
func (s *MaterialService) Upload(ctx context.Context, in domain.CreateMaterialInput) (*domain.Material, error) {
	if in.Title == "" || (in.FileURL == "" && in.Link == "") {
		return nil, fmt.Errorf("%w: title and a file or link are required", domain.ErrValidation)
	}

	m, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}

	if err := s.repo.RecordUpload(ctx, in.UploaderID); err != nil {
		log.Error().Err(err).Int64("student_id", in.UploaderID).Msg("upload gate record failed")
	}

	s.notifier.Notify(ctx, domain.CreateNotificationInput{
		Type:    domain.TypeMaterial,
		RefID:   m.ID,
		Message: messages.NewMaterial(m.Title),
	})

	return m, nil
}

// Download resolves a material for download. Students unlock downloads by
// uploading at least once; the counter bumps on every successful resolve.
func (s *MaterialService) Download(ctx context.Context, id, studentID int64) (*domain.Material, error) {
	unlocked, err := s.repo.HasUploaded(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("check upload gate: %w", err)
	}
	if !unlocked {
		return nil, fmt.Errorf("%w: upload at least one study material to unlock downloads", domain.ErrForbidden)
	}

	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.FileURL == "" {
		return nil, fmt.Errorf("%w: material has no file", domain.ErrValidation)
	}

	if err := s.repo.IncrementDownloads(ctx, id); err != nil {
		log.Error().Err(err).Int64("material_id", id).Msg("download counter increment failed")
	}
	return m, nil
}
