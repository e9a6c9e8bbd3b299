package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDaysUntilInclusive(t *testing.T) {
	cases := []struct {
		name  string
		start Date
		end   Date
		want  int
	}{
		{"five day range", NewDate(2023, time.July, 1), NewDate(2023, time.July, 5), 5},
		{"single day", NewDate(2023, time.July, 1), NewDate(2023, time.July, 1), 1},
		{"across month boundary", NewDate(2023, time.January, 30), NewDate(2023, time.February, 2), 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.start.DaysUntil(tc.end); got != tc.want {
				t.Errorf("DaysUntil(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 14)

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2024-03-14"` {
		t.Errorf("marshaled as %s, want %q", raw, "2024-03-14")
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip changed value: %s", back)
	}
}

func TestDateJSONNull(t *testing.T) {
	var d Date
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("zero date marshaled as %s, want null", raw)
	}

	var back Date
	if err := json.Unmarshal([]byte("null"), &back); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if !back.IsZero() {
		t.Errorf("null did not unmarshal to zero date")
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("14-03-2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
