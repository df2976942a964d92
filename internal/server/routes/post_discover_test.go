package routes

import (
	"testing"
	"time"
)

func TestParseTimeSlice(t *testing.T) {
	cases := []struct {
		name      string
		startDate string
		endDate   string
		wantNil   bool
		wantErr   bool
	}{
		{name: "both empty", wantNil: true},
		{name: "start only", startDate: "2020-01-01", wantErr: true},
		{name: "end only", endDate: "2020-12-31", wantErr: true},
		{name: "bad format", startDate: "01.01.2020", endDate: "2020-12-31", wantErr: true},
		{name: "end before start", startDate: "2020-12-31", endDate: "2020-01-01", wantErr: true},
		{name: "valid range", startDate: "2020-01-01", endDate: "2020-12-31"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			slice, err := parseTimeSlice(c.startDate, c.endDate)
			if c.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.wantNil {
				if slice != nil {
					t.Fatalf("got %+v, want nil", slice)
				}
				return
			}
			if slice == nil {
				t.Fatal("got nil slice")
			}
			if slice.Start != time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) {
				t.Errorf("start = %s", slice.Start)
			}
			// inclusive end of day
			lastMoment := time.Date(2020, 12, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
			if !slice.End.Equal(lastMoment) {
				t.Errorf("end = %s, want %s", slice.End, lastMoment)
			}
			publication := time.Date(2020, 12, 31, 18, 0, 0, 0, time.UTC)
			if !slice.Contains(&publication) {
				t.Error("a publication on the end date must be inside the slice")
			}
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"omitted", 0, 10},
		{"negative", -5, 10},
		{"explicit", 3, 3},
		{"above default", 50, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := normalizeLimit(c.limit); got != c.want {
				t.Errorf("normalizeLimit(%d) = %d, want %d", c.limit, got, c.want)
			}
		})
	}
}
