package entities

// ItineraryItem is one stop of an invite's programme. StartTime is kept as the
// raw stored text; it may fail to parse.
type ItineraryItem struct {
	ID              string
	EventID         string
	Title           string
	StartTime       string
	DurationMinutes int
	Location        string
	Description     string
}
