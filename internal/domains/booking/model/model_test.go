package model_test

import (
	"testing"
	"time"

	"casa/internal/domains/booking/model"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{
			name:     "identical ranges",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-05",
			bStart:   "2026-06-01",
			bEnd:     "2026-06-05",
			expected: true,
		},
		{
			name:     "partial overlap at tail",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-05",
			bStart:   "2026-06-04",
			bEnd:     "2026-06-10",
			expected: true,
		},
		{
			name:     "range fully inside the other",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-10",
			bStart:   "2026-06-03",
			bEnd:     "2026-06-05",
			expected: true,
		},
		{
			name:     "back-to-back stays do not clash",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-05",
			bStart:   "2026-06-05",
			bEnd:     "2026-06-10",
			expected: false,
		},
		{
			name:     "back-to-back stays in the other direction",
			aStart:   "2026-06-05",
			aEnd:     "2026-06-10",
			bStart:   "2026-06-01",
			bEnd:     "2026-06-05",
			expected: false,
		},
		{
			name:     "disjoint ranges",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-03",
			bStart:   "2026-06-10",
			bEnd:     "2026-06-12",
			expected: false,
		},
		{
			name:     "single night shared",
			aStart:   "2026-06-01",
			aEnd:     "2026-06-05",
			bStart:   "2026-06-04",
			bEnd:     "2026-06-05",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestCoversDate(t *testing.T) {
	start := day("2026-06-01")
	end := day("2026-06-05")

	tests := []struct {
		name     string
		date     string
		expected bool
	}{
		{
			name:     "check-in night is occupied",
			date:     "2026-06-01",
			expected: true,
		},
		{
			name:     "middle night is occupied",
			date:     "2026-06-03",
			expected: true,
		},
		{
			name:     "check-out day is free",
			date:     "2026-06-05",
			expected: false,
		},
		{
			name:     "night before check-in is free",
			date:     "2026-05-31",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.CoversDate(start, end, day(tt.date))
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		expected int
	}{
		{
			name:     "single night",
			checkIn:  day("2026-06-01"),
			checkOut: day("2026-06-02"),
			expected: 1,
		},
		{
			name:     "four nights",
			checkIn:  day("2026-06-01"),
			checkOut: day("2026-06-05"),
			expected: 4,
		},
		{
			name:     "same day yields zero",
			checkIn:  day("2026-06-01"),
			checkOut: day("2026-06-01"),
			expected: 0,
		},
		{
			name:     "reversed range yields zero",
			checkIn:  day("2026-06-05"),
			checkOut: day("2026-06-01"),
			expected: 0,
		},
		{
			name:     "partial day rounds up",
			checkIn:  time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC),
			checkOut: time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.Nights(tt.checkIn, tt.checkOut)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}
