package entities

import (
	"testing"
	"time"
)

func TestEventRelations(t *testing.T) {
	seats := 2
	e := Event{HostID: "host", Participants: []string{"host", "me"}, MaxSeats: &seats}

	tests := []struct {
		viewer string
		want   Relation
	}{
		{"host", RelationHost},
		{"me", RelationParticipant},
		{"other", RelationNone},
		{"", RelationNone},
	}
	for _, tt := range tests {
		if got := e.RelationTo(tt.viewer); got != tt.want {
			t.Errorf("RelationTo(%q) = %v, want %v", tt.viewer, got, tt.want)
		}
	}
	if !e.IsFull() {
		t.Error("2/2 should be full")
	}
	e.MaxSeats = nil
	if e.IsFull() {
		t.Error("unlimited event reported full")
	}
}

func TestEventCloneIsDeep(t *testing.T) {
	end := time.Now()
	seats := 3
	e := Event{
		EndTime:        &end,
		MaxSeats:       &seats,
		Participants:   []string{"a"},
		Comments:       []Comment{{Text: "hi"}},
		Reactions:      map[string]Reaction{"🔥": {Count: 1}},
		ItineraryItems: []ItineraryItem{{Title: "x"}},
	}

	c := e.Clone()
	*c.EndTime = end.Add(time.Hour)
	*c.MaxSeats = 9
	c.Participants[0] = "b"
	c.Comments[0].Text = "bye"
	c.Reactions["🔥"] = Reaction{Count: 5}
	c.ItineraryItems[0].Title = "y"

	if !e.EndTime.Equal(end) || *e.MaxSeats != 3 || e.Participants[0] != "a" ||
		e.Comments[0].Text != "hi" || e.Reactions["🔥"].Count != 1 || e.ItineraryItems[0].Title != "x" {
		t.Errorf("original changed: %+v", e)
	}
}

func TestParseBucketAndHorizon(t *testing.T) {
	if b, err := ParseBucket(" attending "); err != nil || b != BucketAttending {
		t.Errorf("ParseBucket = %v, %v", b, err)
	}
	if b, _ := ParseBucket(""); b != BucketAll {
		t.Errorf("empty bucket = %v", b)
	}
	if _, err := ParseBucket("later"); err == nil {
		t.Error("unknown bucket accepted")
	}
	if h, err := ParseHorizon("week"); err != nil || h != HorizonWeek {
		t.Errorf("ParseHorizon = %v, %v", h, err)
	}
	if _, err := ParseHorizon("year"); err == nil {
		t.Error("unknown horizon accepted")
	}
}
