package tz

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultName is the zone used when none is configured.
const DefaultName = "Europe/Paris"

// Paris is the Europe/Paris location (CET/CEST with automatic DST).
var Paris *time.Location

func init() {
	var err error
	Paris, err = time.LoadLocation(DefaultName)
	if err != nil {
		panic("tz: load Europe/Paris: " + err.Error())
	}
}

// Load resolves an IANA zone name. An empty name yields Paris.
func Load(name string) (*time.Location, error) {
	if name == "" || name == DefaultName {
		return Paris, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
