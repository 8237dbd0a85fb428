package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newID() string { return uuid.New().String() }

func hashPassword(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func daysAgo(d int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -d)
}

func randBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func jsonOrNil(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	return b
}

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ── main ─────────────────────────────────────────────────────────────────────
//
// Seeds one demo user with one persona, a handful of shared pool
// postings (as C6's orchestrator would have produced them), the
// persona_jobs links C11's surfacing worker would have created, a
// primary base resume, and one application — enough to exercise every
// module's reads without re-implementing the dedup/enrichment/scoring
// pipelines themselves.
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
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	fmt.Println("connected to database")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	const seedEmail = "seed@jobscout.dev"
	_, _ = tx.Exec(ctx, `DELETE FROM users WHERE email = $1`, seedEmail)
	fmt.Println("cleaned previous seed data")

	// ── 1. user ──────────────────────────────────────────────────────────
	userID := newID()
	createdAt := daysAgo(120)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, email_verified_at, is_admin, balance_usd, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, false, 25.000000, $6, $6)`,
		userID, seedEmail, "Alex Jobseeker", hashPassword("password123"), createdAt, createdAt,
	)
	must(err, "create user")
	fmt.Printf("created user: %s / password123\n", seedEmail)

	// ── 2. persona ───────────────────────────────────────────────────────
	personaID := newID()
	_, err = tx.Exec(ctx,
		`INSERT INTO personas (
			id, user_id, email, full_name, target_roles, target_skills,
			remote_preference, minimum_base_salary, salary_currency,
			minimum_fit_threshold, auto_draft_threshold, onboarding_complete,
			created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, $12, $12)`,
		personaID, userID, seedEmail, "Alex Jobseeker",
		jsonOrNil([]string{"Software Engineer", "Backend Engineer"}),
		jsonOrNil([]string{"Go", "PostgreSQL", "Kubernetes"}),
		"Hybrid OK", 160000, "USD", 65, 80, daysAgo(115),
	)
	must(err, "create persona")
	fmt.Println("created persona")

	// ── 3. base resume ───────────────────────────────────────────────────
	baseResumeID := newID()
	_, err = tx.Exec(ctx,
		`INSERT INTO base_resumes (id, persona_id, name, role_type, is_primary, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, true, 'Active', $5, $5)`,
		baseResumeID, personaID, "Backend Focus", "Software Engineer", daysAgo(110),
	)
	must(err, "create base resume")
	fmt.Println("created base resume")

	// ── 4. shared pool postings ──────────────────────────────────────────
	type posting struct {
		id, title, company, sourceID string
		daysAgo                      int
	}
	postings := []posting{
		{newID(), "Senior Backend Engineer", "TechNova", "adzuna", 12},
		{newID(), "Staff Platform Engineer", "CloudScale Inc.", "remoteok", 8},
		{newID(), "Backend Engineer (Go)", "DataPulse", "usajobs", 3},
	}
	for _, p := range postings {
		descHash := fmt.Sprintf("%x", uuid.New()) // stand-in for a real SHA-256 over description text
		_, err = tx.Exec(ctx,
			`INSERT INTO job_postings (
				id, source_id, job_title, company_name, description, description_hash,
				first_seen_date, is_active, is_quarantined, work_model, ghost_score,
				created_at, updated_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, true, false, 'Remote', 10, $8, $8)`,
			p.id, p.sourceID, p.title, p.company,
			fmt.Sprintf("%s at %s. Own services end to end, on-call rotation, mentor juniors.", p.title, p.company),
			descHash, daysAgo(p.daysAgo), daysAgo(p.daysAgo),
		)
		must(err, "create job posting "+p.title)
	}
	fmt.Printf("created %d pool postings\n", len(postings))

	// ── 5. persona_jobs links (as C11's surfacing worker would create) ──
	for i, p := range postings {
		linkID := newID()
		fitScore := randBetween(66, 92)
		_, err = tx.Exec(ctx,
			`INSERT INTO persona_jobs (
				id, persona_id, job_posting_id, status, discovery_method,
				fit_score, scored_at, created_at, updated_at
			 ) VALUES ($1, $2, $3, 'discovered', 'pool', $4, $5, $6, $6)`,
			linkID, personaID, p.id, fitScore, daysAgo(p.daysAgo-1), daysAgo(p.daysAgo-1),
		)
		must(err, "create persona_job link")
		_ = i
	}
	fmt.Println("created persona_jobs links")

	// ── 6. one application against the oldest posting ───────────────────
	appID := newID()
	snapshot := jsonOrNil(map[string]string{
		"job_title":    postings[0].title,
		"company_name": postings[0].company,
		"description":  fmt.Sprintf("%s at %s.", postings[0].title, postings[0].company),
	})
	_, err = tx.Exec(ctx,
		`INSERT INTO applications (
			id, persona_id, job_posting_id, status, is_pinned, snapshot,
			applied_at, created_at, updated_at
		 ) VALUES ($1, $2, $3, 'applied', true, $4, $5, $5, $5)`,
		appID, personaID, postings[0].id, snapshot, daysAgo(10),
	)
	must(err, "create application")
	_, err = tx.Exec(ctx, `UPDATE persona_jobs SET status = 'applied' WHERE persona_id = $1 AND job_posting_id = $2`, personaID, postings[0].id)
	must(err, "mark link applied")
	fmt.Println("created application")

	// ── commit ───────────────────────────────────────────────────────────
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("\nseed completed successfully")
	fmt.Printf("  login: %s / password123\n", seedEmail)
}
