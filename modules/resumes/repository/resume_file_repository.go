package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobscout/scouter/modules/resumes/model"
)

type ResumeFileRepository struct {
	pool *pgxpool.Pool
}

func NewResumeFileRepository(pool *pgxpool.Pool) *ResumeFileRepository {
	return &ResumeFileRepository{pool: pool}
}

func (r *ResumeFileRepository) Create(ctx context.Context, file *model.ResumeFile) error {
	file.ID = uuid.New().String()
	file.UploadedAt = time.Now().UTC()

	query := `
		INSERT INTO resume_files (
			id, persona_id, file_name, file_type, file_size_bytes,
			storage_key, uploaded_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	// extracted_text starts NULL; SetExtracted fills it in once
	// ConfirmUpload parses the document the client just PUT to S3.
	_, err := r.pool.Exec(ctx, query,
		file.ID, file.PersonaID, file.FileName, file.FileType, file.FileSizeBytes,
		file.StorageKey, file.UploadedAt, file.IsActive,
	)
	return err
}

func (r *ResumeFileRepository) GetByID(ctx context.Context, personaID, fileID string) (*model.ResumeFile, error) {
	query := `
		SELECT id, persona_id, file_name, file_type, file_size_bytes, storage_key, uploaded_at, is_active, extracted_text
		FROM resume_files
		WHERE id = $1 AND persona_id = $2
	`
	file := &model.ResumeFile{}
	err := r.pool.QueryRow(ctx, query, fileID, personaID).Scan(
		&file.ID, &file.PersonaID, &file.FileName, &file.FileType, &file.FileSizeBytes,
		&file.StorageKey, &file.UploadedAt, &file.IsActive, &file.ExtractedText,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrResumeFileNotFound
		}
		return nil, err
	}
	return file, nil
}

func (r *ResumeFileRepository) ListByPersonaID(ctx context.Context, personaID string) ([]*model.ResumeFile, error) {
	query := `
		SELECT id, persona_id, file_name, file_type, file_size_bytes, storage_key, uploaded_at, is_active, extracted_text
		FROM resume_files
		WHERE persona_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*model.ResumeFile
	for rows.Next() {
		file := &model.ResumeFile{}
		if err := rows.Scan(
			&file.ID, &file.PersonaID, &file.FileName, &file.FileType, &file.FileSizeBytes,
			&file.StorageKey, &file.UploadedAt, &file.IsActive, &file.ExtractedText,
		); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// SetExtracted marks a resume file active and attaches the text
// resumeparse pulled from it, once ConfirmUpload has fetched and
// parsed the uploaded document.
func (r *ResumeFileRepository) SetExtracted(ctx context.Context, personaID, fileID, extractedText string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE resume_files SET is_active = true, extracted_text = $3
		WHERE id = $1 AND persona_id = $2
	`, fileID, personaID, extractedText)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrResumeFileNotFound
	}
	return nil
}

func (r *ResumeFileRepository) Delete(ctx context.Context, personaID, fileID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM resume_files WHERE id = $1 AND persona_id = $2`, fileID, personaID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrResumeFileNotFound
	}
	return nil
}
