// Command dedupcli is the out-of-band cross-persona dedup script
// spec.md §6 names ("CLI surface (the dedup script)"). It repairs
// shared-pool rows that ended up with the same description_hash
// before the unique index existed, or that slipped in through a
// migration backfill — modules/pooldedup's conflict recovery only
// guards inserts made through the application, not rows already on
// disk. Idempotent: re-running after a clean pool is a no-op.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/jobscout/scouter/modules/pool/model"
)

// advisoryLockKey is an arbitrary fixed key scoping this script's
// session-level lock; any other process calling pg_advisory_lock with
// the same key blocks until this run finishes.
const advisoryLockKey = 725_001

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

// normalizeCompany collapses whitespace and case so "Acme  Inc." and
// "acme inc." compare equal — the hash-collision guard spec.md §6
// requires before merging a group.
func normalizeCompany(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

type duplicateRow struct {
	id          string
	companyName string
	createdAt   time.Time
	alsoFoundOn model.AlsoFoundOn
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

	conn, err := pool.Acquire(ctx)
	must(err, "acquire connection")
	defer conn.Release()

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey)
	must(err, "acquire advisory lock")
	defer func() {
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil {
			log.Printf("warning: failed to release advisory lock: %v", err)
		}
	}()

	hashes, err := duplicatedHashes(ctx, conn.Conn())
	must(err, "list duplicated hashes")
	if len(hashes) == 0 {
		fmt.Println("no duplicate description_hash groups found")
		return
	}

	merged, skipped := 0, 0
	for _, hash := range hashes {
		did, err := mergeGroup(ctx, conn.Conn(), hash)
		must(err, "merge group "+hash)
		if did {
			merged++
		} else {
			skipped++
		}
	}

	fmt.Printf("dedup complete: %d groups merged, %d skipped (company mismatch)\n", merged, skipped)
}

func duplicatedHashes(ctx context.Context, conn *pgx.Conn) ([]string, error) {
	rows, err := conn.Query(ctx, `
		SELECT description_hash FROM job_postings
		GROUP BY description_hash
		HAVING count(*) > 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// mergeGroup collapses every job_postings row sharing descriptionHash
// into the oldest one. Returns false (no-op) if the group fails the
// company-name guard.
func mergeGroup(ctx context.Context, conn *pgx.Conn, descriptionHash string) (bool, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, company_name, created_at, also_found_on
		FROM job_postings WHERE description_hash = $1
		ORDER BY created_at ASC
	`, descriptionHash)
	if err != nil {
		return false, err
	}
	var group []duplicateRow
	for rows.Next() {
		var d duplicateRow
		var alsoFoundOnRaw []byte
		if err := rows.Scan(&d.id, &d.companyName, &d.createdAt, &alsoFoundOnRaw); err != nil {
			rows.Close()
			return false, err
		}
		_ = json.Unmarshal(alsoFoundOnRaw, &d.alsoFoundOn)
		group = append(group, d)
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	rows.Close()
	if len(group) < 2 {
		return false, nil
	}

	canonical := group[0]
	normalizedCanonical := normalizeCompany(canonical.companyName)
	for _, d := range group[1:] {
		if normalizeCompany(d.companyName) != normalizedCanonical {
			log.Printf("skipping hash %s: company name mismatch (%q vs %q)", descriptionHash, canonical.companyName, d.companyName)
			return false, nil
		}
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	mergedAlsoFoundOn := canonical.alsoFoundOn
	duplicateIDs := make([]string, 0, len(group)-1)
	for _, d := range group[1:] {
		duplicateIDs = append(duplicateIDs, d.id)
		mergedAlsoFoundOn.Sources = append(mergedAlsoFoundOn.Sources, d.alsoFoundOn.Sources...)

		if err := reassignChildren(ctx, tx, d.id, canonical.id); err != nil {
			return false, err
		}
	}
	mergedAlsoFoundOn.Sources = dedupeBySource(mergedAlsoFoundOn.Sources)

	alsoFoundOnRaw, err := json.Marshal(mergedAlsoFoundOn)
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE job_postings SET also_found_on = $2 WHERE id = $1`, canonical.id, alsoFoundOnRaw); err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM job_postings WHERE id = ANY($1)`, duplicateIDs); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	log.Printf("merged %d duplicate(s) of hash %s into %s", len(duplicateIDs), descriptionHash, canonical.id)
	return true, nil
}

// reassignChildren repoints every foreign key from a duplicate
// job_postings row to the canonical one, resolving persona_jobs
// uniqueness conflicts by keeping the canonical's existing link (if
// any) and dropping the duplicate's.
func reassignChildren(ctx context.Context, tx pgx.Tx, duplicateID, canonicalID string) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM persona_jobs pj_dup
		USING persona_jobs pj_canon
		WHERE pj_dup.job_posting_id = $1
		  AND pj_canon.job_posting_id = $2
		  AND pj_canon.persona_id = pj_dup.persona_id
	`, duplicateID, canonicalID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE persona_jobs SET job_posting_id = $2 WHERE job_posting_id = $1`, duplicateID, canonicalID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE applications SET job_posting_id = $2 WHERE job_posting_id = $1`, duplicateID, canonicalID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE job_variants SET job_posting_id = $2 WHERE job_posting_id = $1`, duplicateID, canonicalID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM extracted_skills WHERE job_posting_id = $1`, duplicateID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM job_embeddings WHERE job_posting_id = $1`, duplicateID); err != nil {
		return err
	}
	return nil
}

func dedupeBySource(entries []model.SourceEntry) []model.SourceEntry {
	seen := make(map[string]bool, len(entries))
	var out []model.SourceEntry
	for _, e := range entries {
		if seen[e.SourceID] {
			continue
		}
		seen[e.SourceID] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FoundAt.Before(out[j].FoundAt) })
	return out
}
