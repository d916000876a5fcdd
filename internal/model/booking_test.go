package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
}

func TestBookingStatusIsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, BookingStatus("PENDING").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "identical ranges",
			s1:   date(2024, 6, 1), e1: date(2024, 6, 3),
			s2: date(2024, 6, 1), e2: date(2024, 6, 3),
			want: true,
		},
		{
			name: "partial overlap",
			s1:   date(2024, 6, 1), e1: date(2024, 6, 3),
			s2: date(2024, 6, 2), e2: date(2024, 6, 4),
			want: true,
		},
		{
			name: "contained range",
			s1:   date(2024, 6, 1), e1: date(2024, 6, 10),
			s2: date(2024, 6, 3), e2: date(2024, 6, 5),
			want: true,
		},
		{
			name: "back to back, first ends when second starts",
			s1:   date(2024, 5, 8), e1: date(2024, 5, 10),
			s2: date(2024, 5, 10), e2: date(2024, 5, 12),
			want: false,
		},
		{
			name: "back to back, reversed order",
			s1:   date(2024, 5, 10), e1: date(2024, 5, 12),
			s2: date(2024, 5, 8), e2: date(2024, 5, 10),
			want: false,
		},
		{
			name: "disjoint ranges",
			s1:   date(2024, 6, 1), e1: date(2024, 6, 3),
			s2: date(2024, 6, 10), e2: date(2024, 6, 12),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// The predicate is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}
