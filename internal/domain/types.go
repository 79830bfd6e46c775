// Package domain defines the normalized Linear entities the resolver works with.
// These types carry only what identifier resolution needs, independent of the
// GraphQL response shapes.
package domain

// Team represents a Linear team.
type Team struct {
	ID   string // Linear team UUID
	Key  string // Short team key used in issue identifiers (e.g., "OPS")
	Name string // Display name
}

// Project represents a Linear project.
type Project struct {
	ID   string // Linear project UUID
	Name string // Project name
}

// User represents a Linear workspace member.
type User struct {
	ID    string // Linear user UUID
	Email string // Login email
	Name  string // Display name
}

// WorkflowState represents a team's workflow state (e.g., "Todo", "In Progress").
// State names are only unique within a team.
type WorkflowState struct {
	ID   string // Linear workflow state UUID
	Name string // State name
	Type string // State category: "backlog", "unstarted", "started", "completed", "canceled", "triage"
}

// Label represents an issue label available to a team.
// Label names are only unique within a team.
type Label struct {
	ID   string // Linear label UUID
	Name string // Label name
}

// Issue represents the parts of a Linear issue needed to address it.
type Issue struct {
	ID         string // Linear issue UUID
	Identifier string // Composite identifier (e.g., "OPS-42")
	Number     int    // Issue number within its team
	Title      string // Issue title
	URL        string // Web URL of the issue
}

// Named is implemented by entities matched by name on the client side.
type Named interface {
	GetID() string
	GetName() string
}

// GetID returns the state ID.
func (s WorkflowState) GetID() string { return s.ID }

// GetName returns the state name.
func (s WorkflowState) GetName() string { return s.Name }

// GetID returns the label ID.
func (l Label) GetID() string { return l.ID }

// GetName returns the label name.
func (l Label) GetName() string { return l.Name }
