// Command cleanup runs the daily/weekly retention sweeps from spec.md §6:
// orphan submitted PDFs, archived job variants, archived non-primary
// base resumes, and inactive non-favorite postings, each past its own
// age threshold. The resolved-change-flag sweep is not run (see
// resolvedFlagAge below). Meant to run from cron; every sweep is a
// plain idempotent DELETE, safe to re-run.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	orphanPDFAge        = 7 * 24 * time.Hour
	resolvedFlagAge     = 30 * 24 * time.Hour
	archivedVariantAge  = 180 * 24 * time.Hour
	expiredPostingAge   = 180 * 24 * time.Hour
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "jobber"),
		envOr("DB_PASSWORD", "jobber"),
		envOr("DB_NAME", "jobber"),
		envOr("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	must(err, "connect")
	defer pool.Close()

	now := time.Now().UTC()

	deleted, err := deleteOrphanPDFs(ctx, pool, now.Add(-orphanPDFAge))
	must(err, "delete orphan PDFs")
	fmt.Printf("deleted %d orphan submitted PDFs\n", deleted)

	deleted, err = deleteArchivedVariants(ctx, pool, now.Add(-archivedVariantAge))
	must(err, "delete archived variants")
	fmt.Printf("deleted %d archived job variants\n", deleted)

	deleted, err = deleteArchivedBaseResumes(ctx, pool, now.Add(-archivedVariantAge))
	must(err, "delete archived base resumes")
	fmt.Printf("deleted %d archived base resumes\n", deleted)

	deleted, err = deleteStalePostings(ctx, pool, now.Add(-expiredPostingAge))
	must(err, "delete stale postings")
	fmt.Printf("deleted %d inactive non-favorite postings\n", deleted)

	_ = resolvedFlagAge // no change-flags table exists yet (persona-level onboarding flags only); see DESIGN.md

	fmt.Println("cleanup complete")
}

// deleteOrphanPDFs removes submitted PDFs that were generated but
// never attached to an application (application_id left null past the
// threshold — the application creation step that would have set it
// never happened).
func deleteOrphanPDFs(ctx context.Context, pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM submitted_resume_pdfs
		WHERE application_id IS NULL AND generated_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func deleteArchivedVariants(ctx context.Context, pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM job_variants
		WHERE status = 'Archived' AND archived_at IS NOT NULL AND archived_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func deleteArchivedBaseResumes(ctx context.Context, pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM base_resumes
		WHERE status = 'Archived' AND archived_at IS NOT NULL AND archived_at < $1 AND is_primary = false
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// deleteStalePostings removes pool rows that are both inactive
// (is_active = false, last updated before the cutoff) and unfavorited
// by every persona. Dismissed links alone do not make a posting stale.
// A posting with even one is_favorite=true link is protected.
func deleteStalePostings(ctx context.Context, pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM job_postings jp
		WHERE jp.is_active = false
		  AND jp.updated_at < $1
		  AND NOT EXISTS (
		      SELECT 1 FROM persona_jobs pj
		      WHERE pj.job_posting_id = jp.id AND pj.is_favorite = true
		  )
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
