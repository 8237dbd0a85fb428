package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobscout/scouter/internal/platform/storage"
	"github.com/jobscout/scouter/internal/resumeparse"
	"github.com/jobscout/scouter/modules/resumes/model"
	"github.com/jobscout/scouter/modules/resumes/ports"
)

// ResumeFileService manages the uploaded source documents a persona
// derives base resumes from.
type ResumeFileService struct {
	repo      ports.ResumeFileRepository
	s3Client  *storage.S3Client
	s3Enabled bool
}

func NewResumeFileService(repo ports.ResumeFileRepository, s3Client *storage.S3Client) *ResumeFileService {
	return &ResumeFileService{
		repo:      repo,
		s3Client:  s3Client,
		s3Enabled: s3Client != nil,
	}
}

var resumeFileContentTypes = map[string]string{
	"PDF":  "application/pdf",
	"DOCX": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// GenerateUploadURL mints a presigned S3 slot and a pending ResumeFile
// row before the client uploads anything, mirroring the teacher's
// upload-url-then-PUT flow.
func (s *ResumeFileService) GenerateUploadURL(ctx context.Context, personaID string, req *model.GenerateUploadURLRequest) (*model.GenerateUploadURLResponse, error) {
	if !s.s3Enabled {
		return nil, fmt.Errorf("S3 storage is not configured")
	}
	expected, ok := resumeFileContentTypes[req.FileType]
	if !ok || req.ContentType != expected {
		return nil, fmt.Errorf("content type %q does not match file type %q", req.ContentType, req.FileType)
	}

	fileID := uuid.New().String()
	ext := "pdf"
	if req.FileType == "DOCX" {
		ext = "docx"
	}
	storageKey := fmt.Sprintf("personas/%s/resume-files/%s.%s", personaID, fileID, ext)

	expiry := 5 * time.Minute
	uploadURL, err := s.s3Client.GeneratePresignedUploadURL(ctx, storageKey, req.ContentType, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	file := &model.ResumeFile{
		ID:         fileID,
		PersonaID:  personaID,
		FileName:   req.Filename,
		FileType:   req.FileType,
		StorageKey: storageKey,
		IsActive:   false,
	}
	if err := s.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to create resume file record: %w", err)
	}

	return &model.GenerateUploadURLResponse{
		ResumeFileID: fileID,
		UploadURL:    uploadURL,
		ExpiresIn:    int(expiry.Seconds()),
	}, nil
}

// ConfirmUpload runs after the client's presigned PUT completes: it
// fetches the uploaded bytes back from S3, extracts plain text via
// internal/resumeparse, and marks the file active. Extraction failure
// degrades gracefully — the file is still marked active so the persona
// can use it, just without the text signal C10 would otherwise read.
func (s *ResumeFileService) ConfirmUpload(ctx context.Context, personaID, fileID string) error {
	if !s.s3Enabled {
		return fmt.Errorf("S3 storage is not configured")
	}
	file, err := s.repo.GetByID(ctx, personaID, fileID)
	if err != nil {
		return err
	}

	body, err := s.s3Client.GetObject(ctx, file.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to fetch uploaded file: %w", err)
	}
	defer body.Close()

	text, err := resumeparse.Extract(body, file.FileType)
	if err != nil {
		fmt.Printf("Warning: resumeparse extraction failed for resume file %s: %v\n", fileID, err)
		text = ""
	}
	return s.repo.SetExtracted(ctx, personaID, fileID, text)
}

func (s *ResumeFileService) GenerateDownloadURL(ctx context.Context, personaID, fileID string) (*model.DownloadURLResponse, error) {
	if !s.s3Enabled {
		return nil, fmt.Errorf("S3 storage is not configured")
	}
	file, err := s.repo.GetByID(ctx, personaID, fileID)
	if err != nil {
		return nil, err
	}

	expiry := 15 * time.Minute
	downloadURL, err := s.s3Client.GeneratePresignedDownloadURL(ctx, file.StorageKey, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}
	return &model.DownloadURLResponse{DownloadURL: downloadURL, ExpiresIn: int(expiry.Seconds())}, nil
}

func (s *ResumeFileService) List(ctx context.Context, personaID string) ([]*model.ResumeFile, error) {
	return s.repo.ListByPersonaID(ctx, personaID)
}

func (s *ResumeFileService) GetByID(ctx context.Context, personaID, fileID string) (*model.ResumeFile, error) {
	return s.repo.GetByID(ctx, personaID, fileID)
}

func (s *ResumeFileService) Delete(ctx context.Context, personaID, fileID string) error {
	file, err := s.repo.GetByID(ctx, personaID, fileID)
	if err != nil {
		return err
	}
	if s.s3Enabled {
		if err := s.s3Client.DeleteObject(ctx, file.StorageKey); err != nil {
			fmt.Printf("Warning: Failed to delete S3 object for resume file %s: %v\n", fileID, err)
		}
	}
	return s.repo.Delete(ctx, personaID, fileID)
}
