package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestReview_CanTogglePreferred(t *testing.T) {
	tests := []struct {
		name     string
		review   Review
		expected bool
	}{
		{
			name: "homeowner review with flag and home",
			review: Review{
				ReviewType:     ReviewHomeownerToCleaner,
				SetAsPreferred: boolPtr(true),
				HomeID:         intPtr(50),
			},
			expected: true,
		},
		{
			name: "unset flag still qualifies",
			review: Review{
				ReviewType:     ReviewHomeownerToCleaner,
				SetAsPreferred: boolPtr(false),
				HomeID:         intPtr(50),
			},
			expected: true,
		},
		{
			name: "wrong review direction",
			review: Review{
				ReviewType:     ReviewCleanerToHomeowner,
				SetAsPreferred: boolPtr(true),
				HomeID:         intPtr(50),
			},
			expected: false,
		},
		{
			name: "missing home",
			review: Review{
				ReviewType:     ReviewHomeownerToCleaner,
				SetAsPreferred: boolPtr(true),
			},
			expected: false,
		},
		{
			name: "flag absent",
			review: Review{
				ReviewType: ReviewHomeownerToCleaner,
				HomeID:     intPtr(50),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.review.CanTogglePreferred())
		})
	}
}
