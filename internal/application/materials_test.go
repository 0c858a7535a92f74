package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/domain"
)

type fakeMaterialRepo struct {
	get                func(id int64) (*domain.Material, error)
	create             func(in domain.CreateMaterialInput) (*domain.Material, error)
	hasUploaded        func(studentID int64) (bool, error)
	incrementDownloads func(id int64) error
	uploadsRecorded    int
}

func (r *fakeMaterialRepo) List(_ context.Context, f domain.MaterialFilter) ([]domain.Material, error) {
	return nil, nil
}

func (r *fakeMaterialRepo) Get(_ context.Context, id int64) (*domain.Material, error) {
	return r.get(id)
}

func (r *fakeMaterialRepo) Create(_ context.Context, in domain.CreateMaterialInput) (*domain.Material, error) {
	return r.create(in)
}

func (r *fakeMaterialRepo) IncrementDownloads(_ context.Context, id int64) error {
	if r.incrementDownloads == nil {
		return nil
	}
	return r.incrementDownloads(id)
}

func (r *fakeMaterialRepo) HasUploaded(_ context.Context, studentID int64) (bool, error) {
	return r.hasUploaded(studentID)
}

func (r *fakeMaterialRepo) RecordUpload(_ context.Context, studentID int64) error {
	r.uploadsRecorded++
	return nil
}

func TestUpload_RecordsGateAndAnnounces(t *testing.T) {
	repo := &fakeMaterialRepo{
		create: func(in domain.CreateMaterialInput) (*domain.Material, error) {
			return &domain.Material{ID: 3, Title: in.Title}, nil
		},
	}
	hub := newFakeHub()
	svc := application.NewMaterialService(repo, application.NewNotifier(&fakeNotificationRepo{}, hub))

	m, err := svc.Upload(context.Background(), domain.CreateMaterialInput{
		Title:      "Calculus cheat sheet",
		FileURL:    "uploads/calc.pdf",
		UploaderID: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.uploadsRecorded != 1 {
		t.Fatal("upload gate was not recorded")
	}

	n := waitNotification(t, hub)
	if n.Type != domain.TypeMaterial || n.RefID != m.ID {
		t.Fatalf("wrong announcement: %+v", n)
	}
}

func TestUpload_RequiresTitleAndFileOrLink(t *testing.T) {
	svc := application.NewMaterialService(&fakeMaterialRepo{}, application.NewNotifier(&fakeNotificationRepo{}, newFakeHub()))

	_, err := svc.Upload(context.Background(), domain.CreateMaterialInput{Title: "no file"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestDownload_LockedUntilFirstUpload(t *testing.T) {
	repo := &fakeMaterialRepo{
		hasUploaded: func(int64) (bool, error) { return false, nil },
		get: func(int64) (*domain.Material, error) {
			t.Fatal("locked student must not resolve materials")
			return nil, nil
		},
	}
	svc := application.NewMaterialService(repo, application.NewNotifier(&fakeNotificationRepo{}, newFakeHub()))

	if _, err := svc.Download(context.Background(), 3, 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestDownload_BumpsCounter(t *testing.T) {
	bumped := false
	repo := &fakeMaterialRepo{
		hasUploaded:        func(int64) (bool, error) { return true, nil },
		get:                func(id int64) (*domain.Material, error) { return &domain.Material{ID: id, FileURL: "uploads/x.pdf"}, nil },
		incrementDownloads: func(int64) error { bumped = true; return nil },
	}
	svc := application.NewMaterialService(repo, application.NewNotifier(&fakeNotificationRepo{}, newFakeHub()))

	m, err := svc.Download(context.Background(), 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bumped || m.FileURL == "" {
		t.Fatal("download did not bump the counter")
	}
}
