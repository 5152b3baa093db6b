package core

import "time"

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"
)

// LogEntry records one add or edit event. ItemName is a snapshot taken at the time of the change.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ItemName  string    `json:"itemName"`
	Change    string    `json:"change"`
	Direction Direction `json:"type"`
}

// DatePart returns the DD/MM/YYYY half of the displayed timestamp.
func (e LogEntry) DatePart(loc *time.Location) string {
	return inLocation(e.Timestamp, loc).Format(DateLayout)
}

// TimePart returns the HH:MM:SS half of the displayed timestamp.
func (e LogEntry) TimePart(loc *time.Location) string {
	return inLocation(e.Timestamp, loc).Format(TimeLayout)
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
