package walk

import "time"

// Record is one completed walking session.
type Record struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Duration  int       `json:"duration"` // seconds
	Distance  float64   `json:"distance"` // km
	Steps     int       `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput carries the caller-supplied fields of a new record.
// Date is optional; the zero value means "now".
type CreateInput struct {
	Duration int
	Distance float64
	Steps    int
	Date     time.Time
}
