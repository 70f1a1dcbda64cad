package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/oklog/ulid/v2"
)

// DefaultHistoryLimit is used by ListDetections when limit is zero.
const DefaultHistoryLimit = 20

// SaveDetection records a detection run.
func (s *SQLiteStorage) SaveDetection(ctx context.Context, detection *model.Detection) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDetection(detection); err != nil {
		return err
	}

	if detection.ID == "" {
		detection.ID = ulid.Make().String()
	}
	if detection.CreatedAt.IsZero() {
		detection.CreatedAt = time.Now().UTC()
	}

	byCategory, err := json.Marshal(nonNilCategoryCounts(detection.MatchesByCategory))
	if err != nil {
		return fmt.Errorf("failed to encode category counts: %w", err)
	}
	bySeverity, err := json.Marshal(nonNilSeverityCounts(detection.MatchesBySeverity))
	if err != nil {
		return fmt.Errorf("failed to encode severity counts: %w", err)
	}

	query := `
		INSERT INTO detections (
			id, team_id, source, word_count, total_matches, ai_score,
			matches_by_category, matches_by_severity, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		detection.ID, detection.TeamID, detection.Source, detection.WordCount,
		detection.TotalMatches, detection.AIScore, string(byCategory), string(bySeverity),
		detection.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: detection %s", common.ErrDuplicateEntry, detection.ID)
		}
		return fmt.Errorf("failed to save detection: %w", err)
	}

	return nil
}

// GetDetection retrieves a detection record by ID.
func (s *SQLiteStorage) GetDetection(ctx context.Context, id string) (*model.Detection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, team_id, source, word_count, total_matches, ai_score,
			matches_by_category, matches_by_severity, created_at
		FROM detections
		WHERE id = ?
	`

	detection, err := scanDetection(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: detection %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get detection: %w", err)
	}
	return detection, nil
}

// ListDetections returns the most recent detections, newest first.
func (s *SQLiteStorage) ListDetections(ctx context.Context, limit int) ([]model.Detection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, team_id, source, word_count, total_matches, ai_score,
			matches_by_category, matches_by_severity, created_at
		FROM detections
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	detections := []model.Detection{}
	for rows.Next() {
		detection, err := scanDetection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, *detection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detections: %w", err)
	}

	return detections, nil
}

func scanDetection(row rowScanner) (*model.Detection, error) {
	var (
		detection  model.Detection
		byCategory string
		bySeverity string
	)

	err := row.Scan(
		&detection.ID, &detection.TeamID, &detection.Source, &detection.WordCount,
		&detection.TotalMatches, &detection.AIScore, &byCategory, &bySeverity,
		&detection.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(byCategory), &detection.MatchesByCategory); err != nil {
		return nil, fmt.Errorf("failed to decode category counts: %w", err)
	}
	if err := json.Unmarshal([]byte(bySeverity), &detection.MatchesBySeverity); err != nil {
		return nil, fmt.Errorf("failed to decode severity counts: %w", err)
	}

	return &detection, nil
}

func nonNilCategoryCounts(m map[model.RuleCategory]int) map[model.RuleCategory]int {
	if m == nil {
		return map[model.RuleCategory]int{}
	}
	return m
}

func nonNilSeverityCounts(m map[model.Severity]int) map[model.Severity]int {
	if m == nil {
		return map[model.Severity]int{}
	}
	return m
}
