package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/geobase-api/internal/database"
	"github.com/geobase-api/internal/models"
	"github.com/lib/pq"
)

// submissionRepo is the concrete implementation of SubmissionRepository
type submissionRepo struct {
	db *database.DB
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *database.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

const submissionColumns = `
	s.id, s.question, s.answer, s.category_id, c.name, s.client_id,
	s.source, s.image_url, s.word_count, s.status, s.created_at, s.updated_at
`

func scanSubmission(scanner interface{ Scan(...interface{}) error }) (*models.Submission, error) {
	var s models.Submission
	var source, imageURL sql.NullString
	err := scanner.Scan(
		&s.ID, &s.Question, &s.Answer, &s.CategoryID, &s.Category, &s.ClientID,
		&source, &imageURL, &s.WordCount, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Source = source.String
	s.ImageURL = imageURL.String
	return &s, nil
}

// ListByClient retrieves all submissions for a client, newest first, with
// the category name joined in.
func (r *submissionRepo) ListByClient(ctx context.Context, clientID string) ([]models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN categories c ON c.id = s.category_id
		WHERE s.client_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

// Create inserts a new submission
func (r *submissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, question, answer, category_id, client_id,
			source, image_url, word_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		submission.ID, submission.Question, submission.Answer,
		submission.CategoryID, submission.ClientID,
		nullable(submission.Source), nullable(submission.ImageURL),
		submission.WordCount, submission.Status,
		submission.CreatedAt, submission.UpdatedAt,
	)
	return err
}

// BatchInsert inserts multiple submissions in a single transaction using
// PostgreSQL COPY. The batch is all-or-nothing: any row failure rolls the
// whole insert back.
func (r *submissionRepo) BatchInsert(ctx context.Context, submissions []*models.Submission) (int, error) {
	if len(submissions) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("submissions",
		"id", "question", "answer", "category_id", "client_id",
		"source", "image_url", "word_count", "status", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	for _, s := range submissions {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now
		_, err := stmt.ExecContext(ctx,
			s.ID, s.Question, s.Answer, s.CategoryID, s.ClientID,
			nullable(s.Source), nullable(s.ImageURL),
			s.WordCount, s.Status, s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return 0, err
		}
	}

	// Execute the COPY
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(submissions), nil
}

// UpdateStatus moves a submission to a new lifecycle status, scoped to a
// client. Returns whether a row was actually updated.
func (r *submissionRepo) UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE submissions SET status = $3, updated_at = $4 WHERE id = $1 AND client_id = $2",
		id, clientID, status, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a submission scoped to a client. Returns whether a row
// was actually deleted; a cross-client or malformed ID deletes nothing.
func (r *submissionRepo) Delete(ctx context.Context, clientID, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM submissions WHERE id = $1 AND client_id = $2", id, clientID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteMany removes submissions by ID scoped to a client and returns the
// count actually deleted, which may be less than requested. Malformed IDs
// are dropped before they reach the uuid-typed column.
func (r *submissionRepo) DeleteMany(ctx context.Context, clientID string, ids []string) (int, error) {
	ids = filterUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM submissions WHERE id = ANY($1) AND client_id = $2",
		pq.Array(ids), clientID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// CountByStatus returns the number of a client's submissions in a status
func (r *submissionRepo) CountByStatus(ctx context.Context, clientID string, status models.SubmissionStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM submissions WHERE client_id = $1 AND status = $2",
		clientID, status).Scan(&count)
	return count, err
}

// StreamByClient streams a client's submissions for export (memory efficient)
func (r *submissionRepo) StreamByClient(ctx context.Context, clientID string, callback func(*models.Submission) error) error {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions s
		JOIN categories c ON c.id = s.category_id
		WHERE s.client_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return err
		}
		if err := callback(s); err != nil {
			return err
		}
	}

	return rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
