package entities

import (
	"fmt"
	"strings"
)

// Viewer is the signed-in user looking at the feed.
type Viewer struct {
	ID string
}

// Bucket selects which tab of the feed is active.
type Bucket string

const (
	BucketAll       Bucket = "ALL"
	BucketPending   Bucket = "PENDING"
	BucketAttending Bucket = "ATTENDING"
	BucketHosting   Bucket = "HOSTING"
	BucketPast      Bucket = "PAST"
	BucketDismissed Bucket = "DISMISSED"
)

var Buckets = []Bucket{BucketAll, BucketPending, BucketAttending, BucketHosting, BucketPast, BucketDismissed}

func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToUpper(strings.TrimSpace(s)))
	if b == "" {
		return BucketAll, nil
	}
	for _, known := range Buckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("bucket inconnu: %q", s)
}

// Horizon narrows the feed to a time window.
type Horizon string

const (
	HorizonAll      Horizon = "ALL"
	HorizonToday    Horizon = "TODAY"
	HorizonTomorrow Horizon = "TOMORROW"
	HorizonWeek     Horizon = "WEEK"
)

func ParseHorizon(s string) (Horizon, error) {
	switch h := Horizon(strings.ToUpper(strings.TrimSpace(s))); h {
	case "":
		return HorizonAll, nil
	case HorizonAll, HorizonToday, HorizonTomorrow, HorizonWeek:
		return h, nil
	default:
		return "", fmt.Errorf("horizon inconnu: %q", s)
	}
}

// Relation is the viewer's relationship to an event.
type Relation int

const (
	RelationNone Relation = iota
	RelationParticipant
	RelationHost
)

func (r Relation) String() string {
	switch r {
	case RelationHost:
		return "host"
	case RelationParticipant:
		return "participant"
	default:
		return "none"
	}
}
