package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetDetection(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	result := model.DetectionResult{
		MatchesByCategory: map[model.RuleCategory]int{model.CategoryWordVariety: 2},
		MatchesBySeverity: map[model.Severity]int{model.SeverityHigh: 2},
		TotalMatches:      2,
		WordCount:         40,
		AIScore:           60,
	}
	detection := model.NewDetection("post.md", "acme", result)
	require.NoError(t, store.SaveDetection(ctx, detection))
	require.NotEmpty(t, detection.ID)

	got, err := store.GetDetection(ctx, detection.ID)
	require.NoError(t, err)
	assert.Equal(t, "post.md", got.Source)
	assert.Equal(t, "acme", got.TeamID)
	assert.Equal(t, 40, got.WordCount)
	assert.Equal(t, 2, got.TotalMatches)
	assert.Equal(t, 60, got.AIScore)
	assert.Equal(t, 2, got.MatchesByCategory[model.CategoryWordVariety])
	assert.Equal(t, 2, got.MatchesBySeverity[model.SeverityHigh])
}

func TestSaveDetection_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		detection *model.Detection
		name      string
	}{
		{name: "nil", detection: nil},
		{name: "no source", detection: &model.Detection{}},
		{name: "score too high", detection: &model.Detection{Source: "x", AIScore: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveDetection(ctx, tt.detection))
		})
	}
}

func TestGetDetection_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetDetection(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListDetections(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, source := range []string{"first.md", "second.md", "third.md"} {
		detection := &model.Detection{
			Source:    source,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.SaveDetection(ctx, detection))
	}

	detections, err := store.ListDetections(ctx, 2)
	require.NoError(t, err)
	require.Len(t, detections, 2)
	assert.Equal(t, "third.md", detections[0].Source)
	assert.Equal(t, "second.md", detections[1].Source)
	assert.NotNil(t, detections[0].MatchesByCategory)

	all, err := store.ListDetections(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = store.ListDetections(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
