package review

import (
	"math"
	"testing"
	"time"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

func TestNextSchedule_Easy(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		reps         int
		ease         float64
		interval     int
		wantReps     int
		wantEase     float64
		wantInterval int
		wantStatus   domain.ReviewStatus
	}{
		{"first easy", 0, 2.5, 0, 1, 2.6, 1, domain.ReviewStatusLearning},
		{"second easy", 1, 2.6, 1, 2, 2.7, 3, domain.ReviewStatusLearning},
		{"third easy grows by ease", 2, 2.6, 3, 3, 2.7, 8, domain.ReviewStatusLearning},
		{"ease caps at 3.5", 3, 3.45, 8, 4, 3.5, 28, domain.ReviewStatusLearning},
		{"fifth easy masters", 4, 2.5, 10, 5, 2.6, 26, domain.ReviewStatusMastered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.ReviewItem{
				Repetitions:  tt.reps,
				EaseFactor:   tt.ease,
				IntervalDays: tt.interval,
				Status:       domain.ReviewStatusLearning,
			}
			got := nextSchedule(item, domain.RatingEasy, now)

			if got.Repetitions != tt.wantReps {
				t.Errorf("Repetitions = %d, want %d", got.Repetitions, tt.wantReps)
			}
			if math.Abs(got.EaseFactor-tt.wantEase) > 1e-9 {
				t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, tt.wantEase)
			}
			if got.IntervalDays != tt.wantInterval {
				t.Errorf("IntervalDays = %d, want %d", got.IntervalDays, tt.wantInterval)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if want := now.AddDate(0, 0, tt.wantInterval); !got.DueAt.Equal(want) {
				t.Errorf("DueAt = %v, want %v", got.DueAt, want)
			}
			if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(now) {
				t.Errorf("LastReviewedAt = %v, want %v", got.LastReviewedAt, now)
			}
		})
	}
}

func TestNextSchedule_Hard(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	item := domain.ReviewItem{
		Repetitions:  3,
		EaseFactor:   2.5,
		IntervalDays: 10,
		Status:       domain.ReviewStatusLearning,
	}

	got := nextSchedule(item, domain.RatingHard, now)

	if got.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", got.Repetitions)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	if math.Abs(got.EaseFactor-2.3) > 1e-9 {
		t.Errorf("EaseFactor = %v, want 2.3", got.EaseFactor)
	}
	if got.Status != domain.ReviewStatusLearning {
		t.Errorf("Status = %q, want learning", got.Status)
	}
	if want := now.AddDate(0, 0, 1); !got.DueAt.Equal(want) {
		t.Errorf("DueAt = %v, want %v", got.DueAt, want)
	}
}

func TestNextSchedule_HardFloorsEase(t *testing.T) {
	now := time.Now()
	item := domain.ReviewItem{EaseFactor: 1.35}

	got := nextSchedule(item, domain.RatingHard, now)
	if math.Abs(got.EaseFactor-1.3) > 1e-9 {
		t.Errorf("EaseFactor = %v, want floor 1.3", got.EaseFactor)
	}
}

func TestNextSchedule_MasteredItemStaysScheduled(t *testing.T) {
	// A hard rating on a mastered item demotes it back to learning.
	now := time.Now()
	item := domain.ReviewItem{
		Repetitions:  6,
		EaseFactor:   3.0,
		IntervalDays: 40,
		Status:       domain.ReviewStatusMastered,
	}

	got := nextSchedule(item, domain.RatingHard, now)
	if got.Status != domain.ReviewStatusLearning {
		t.Errorf("Status = %q, want learning after a lapse", got.Status)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
}
