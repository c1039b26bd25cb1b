package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2025, time.February, 29), New(2025, time.March, 1); got != want {
		t.Errorf("New(2025-02-29) = %v, want %v", got, want)
	}
}

func TestFromTime(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	// 23:30 UTC on the 31st is already the 1st in Paris.
	instant := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	if got, want := FromTime(instant), New(2025, time.January, 31); got != want {
		t.Errorf("FromTime(UTC) = %v, want %v", got, want)
	}
	if got, want := FromTime(instant.In(paris)), New(2025, time.February, 1); got != want {
		t.Errorf("FromTime(CET) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, time.July, 1), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"01/07/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2025, time.March, 4)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2025-03-04"` {
		t.Errorf("Marshal() = %s, want %q", data, "2025-03-04")
	}
	var got Date
	if err := json.Unmarshal([]byte(`"2025-3-4"`), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}
