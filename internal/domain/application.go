package domain

import (
	"fmt"
	"time"
)

// ApplicationStatus is the triage state of an intake submission.
type ApplicationStatus string

// Application statuses. Any status may follow any other.
const (
	ApplicationStatusNew       ApplicationStatus = "new"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every valid status in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusNew,
	ApplicationStatusReviewing,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// IsValid reports whether s is one of the known statuses.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusNew, ApplicationStatusReviewing, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// OrDefault returns s, or new when s is empty.
func (s ApplicationStatus) OrDefault() ApplicationStatus {
	if s == "" {
		return ApplicationStatusNew
	}
	return s
}

// ParseApplicationStatus converts a raw value into a status.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown application status %q", raw)
	}
	return s, nil
}

// Application is a public intake submission requesting representation.
type Application struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Instagram string            `json:"instagram"`
	Niche     string            `json:"niche"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewApplication creates a submission with status new and CreatedAt set to now.
func NewApplication(id, name, email, instagram, niche string) *Application {
	return &Application{
		ID:        id,
		Name:      name,
		Email:     email,
		Instagram: instagram,
		Niche:     niche,
		Status:    ApplicationStatusNew,
		CreatedAt: time.Now().UTC(),
	}
}

// CountByStatus tallies applications per status, treating an empty status as new.
func CountByStatus(apps []*Application) map[ApplicationStatus]int {
	counts := make(map[ApplicationStatus]int, len(ApplicationStatuses))
	for _, app := range apps {
		counts[app.Status.OrDefault()]++
	}
	return counts
}
