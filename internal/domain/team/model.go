package team

import "time"

// ServiceType marks which timelines a team serves.
type ServiceType string

const (
	ServiceAssembly   ServiceType = "assembly"
	ServiceAssistance ServiceType = "assistance"
)

// Palette is the fixed set of color keys a team may use.
var Palette = []string{"blue", "green", "orange", "purple", "red", "teal", "amber", "slate"}

// Team is a field crew assignable to assembly jobs and assistance visits.
type Team struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenant_id"`
	Name         string        `json:"name"`
	Color        string        `json:"color"`
	Members      []string      `json:"members,omitempty"`
	ServiceTypes []ServiceType `json:"service_types,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Services returns the team's service types. Teams created before service
// types existed have none stored and default to assembly-only.
func (t *Team) Services() []ServiceType {
	if len(t.ServiceTypes) == 0 {
		return []ServiceType{ServiceAssembly}
	}
	return t.ServiceTypes
}

// Serves reports whether the team handles the given service type.
func (t *Team) Serves(st ServiceType) bool {
	for _, s := range t.Services() {
		if s == st {
			return true
		}
	}
	return false
}
