package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

// ErrNotFound is returned by Get for an unknown id
var ErrNotFound = errors.New("result not found")

// DefaultRecentLimit caps Recent when the caller passes a non-positive limit
const DefaultRecentLimit = 50

const selectResult = `SELECT id, created_at, answers, scores, recommended_style, weights_fingerprint FROM style_results`

// Repository handles result persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a result
func (r *Repository) Save(ctx context.Context, res *StoredResult) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO style_results (id, created_at, answers, scores, recommended_style, weights_fingerprint) VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.CreatedAt, string(answers), string(scores), string(res.RecommendedStyle), res.WeightsFingerprint)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// Get loads one result by id
func (r *Repository) Get(ctx context.Context, id string) (*StoredResult, error) {
	row := r.db.QueryRowContext(ctx, selectResult+` WHERE id = ?`, id)

	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}

	return res, nil
}

// Recent returns the newest results first
func (r *Repository) Recent(ctx context.Context, limit int) ([]*StoredResult, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, selectResult+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var out []*StoredResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		out = append(out, res)
	}

	return out, rows.Err()
}

// StyleCounts tallies recommendations, most frequent first
func (r *Repository) StyleCounts(ctx context.Context) ([]StyleCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT recommended_style, COUNT(*) FROM style_results GROUP BY recommended_style ORDER BY COUNT(*) DESC, recommended_style ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count styles: %w", err)
	}
	defer rows.Close()

	var out []StyleCount
	for rows.Next() {
		var sc StyleCount
		var style string
		if err := rows.Scan(&style, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan style count: %w", err)
		}
		sc.Style = analysis.Style(style)
		out = append(out, sc)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*StoredResult, error) {
	var (
		res              StoredResult
		answers, scores  string
		recommendedStyle string
	)
	if err := s.Scan(&res.ID, &res.CreatedAt, &answers, &scores, &recommendedStyle, &res.WeightsFingerprint); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
		return nil, fmt.Errorf("corrupt answers for %s: %w", res.ID, err)
	}
	if err := json.Unmarshal([]byte(scores), &res.Scores); err != nil {
		return nil, fmt.Errorf("corrupt scores for %s: %w", res.ID, err)
	}
	res.RecommendedStyle = analysis.Style(recommendedStyle)
	return &res, nil
}
