package validation

import (
	"strings"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, err := ParseDay(" 2024-03-09 ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDay() = %v, want %v", got, want)
	}

	empty, err := ParseDay("")
	if err != nil || !empty.IsZero() {
		t.Errorf("ParseDay(\"\") = %v, %v; want zero, nil", empty, err)
	}

	if _, err := ParseDay("09/03/2024"); err == nil {
		t.Error("Expected error for wrong layout")
	}
}

func TestParseDayRange(t *testing.T) {
	tests := []struct {
		name        string
		from, to    string
		wantFrom    time.Time
		wantTo      time.Time
		shouldError bool
		errorMsg    string
	}{
		{
			name:     "both set, to covers the day",
			from:     "2024-01-01",
			to:       "2024-01-31",
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:   "both empty",
			from:   "",
			to:     "",
			wantTo: time.Time{},
		},
		{
			name:     "same day",
			from:     "2024-05-05",
			to:       "2024-05-05",
			wantFrom: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 5, 5, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "inverted",
			from:        "2024-02-01",
			to:          "2024-01-01",
			shouldError: true,
			errorMsg:    "before",
		},
		{
			name:        "bad from",
			from:        "yesterday",
			shouldError: true,
			errorMsg:    "from:",
		},
		{
			name:        "bad to",
			to:          "2024-13-01",
			shouldError: true,
			errorMsg:    "to:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDayRange(tt.from, tt.to)
			if tt.shouldError {
				if err == nil {
					t.Fatal("Expected error")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("to = %v, want %v", to, tt.wantTo)
			}
		})
	}
}
