package domain

import "time"

// Record provides identity and timestamps for mutable entities.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (r *Record) InitTimestamps() {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Touch advances UpdatedAt. The new value is always strictly later than the previous one,
// so consumers using it as a cache-busting token see a change after every mutation.
func (r *Record) Touch() {
	now := time.Now().UTC()
	if !now.After(r.UpdatedAt) {
		now = r.UpdatedAt.Add(time.Microsecond)
	}
	r.UpdatedAt = now
}
