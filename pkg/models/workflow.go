// Package models defines the catalog types for lead-generation workflows and their forms.
package models

// WorkflowStatus represents the availability of a workflow in the dashboard.
type WorkflowStatus string

const (
	WorkflowStatusReady      WorkflowStatus = "ready"
	WorkflowStatusRunning    WorkflowStatus = "running"
	WorkflowStatusNeedsSetup WorkflowStatus = "needs-setup"
	WorkflowStatusComingSoon WorkflowStatus = "coming-soon" // Never has an endpoint
)

var workflowStatusLabels = map[WorkflowStatus]string{
	WorkflowStatusReady:      "Ready",
	WorkflowStatusRunning:    "Running",
	WorkflowStatusNeedsSetup: "Needs Setup",
	WorkflowStatusComingSoon: "Coming Soon",
}

// Valid reports whether the status is one of the known values.
func (s WorkflowStatus) Valid() bool {
	_, ok := workflowStatusLabels[s]

	return ok
}

// Label returns the badge text shown on a workflow card.
func (s WorkflowStatus) Label() string {
	return workflowStatusLabels[s]
}

// Icon is a symbolic reference into the fixed icon set of the dashboard.
type Icon string

const (
	IconSearch        Icon = "Search"
	IconMapPin        Icon = "MapPin"
	IconCheckCircle   Icon = "CheckCircle"
	IconSend          Icon = "Send"
	IconUsers         Icon = "Users"
	IconDatabase      Icon = "Database"
	IconMessageSquare Icon = "MessageSquare"
)

var knownIcons = map[Icon]struct{}{
	IconSearch:        {},
	IconMapPin:        {},
	IconCheckCircle:   {},
	IconSend:          {},
	IconUsers:         {},
	IconDatabase:      {},
	IconMessageSquare: {},
}

// Known reports whether the icon can be rendered. Unknown icons render nothing.
func (i Icon) Known() bool {
	_, ok := knownIcons[i]

	return ok
}

// Workflow describes one automation workflow that can be triggered from a panel.
type Workflow struct {
	ID          string           `json:"id"                 yaml:"id"                 validate:"required"`
	Name        string           `json:"name"               yaml:"name"               validate:"required"`
	Description string           `json:"description"        yaml:"description"`
	Icon        Icon             `json:"icon"               yaml:"icon"`
	Status      WorkflowStatus   `json:"status"             yaml:"status"             validate:"required,oneof=ready running needs-setup coming-soon"`
	Endpoint    string           `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,startswith=/"`
	Fields      []*WorkflowField `json:"fields"             yaml:"fields"             validate:"dive"`
}

// Submittable reports whether the workflow declares an endpoint to post its form to.
func (w *Workflow) Submittable() bool {
	return w.Endpoint != ""
}

// Field returns the field descriptor with the given id.
func (w *Workflow) Field(id string) (*WorkflowField, bool) {
	for _, field := range w.Fields {
		if field.ID == id {
			return field, true
		}
	}

	return nil, false
}

// WorkflowCategory groups workflows for navigation.
type WorkflowCategory struct {
	ID          string      `json:"id"          yaml:"id"          validate:"required"`
	Name        string      `json:"name"        yaml:"name"        validate:"required"`
	Description string      `json:"description" yaml:"description"`
	Icon        Icon        `json:"icon"        yaml:"icon"`
	Workflows   []*Workflow `json:"workflows"   yaml:"workflows"   validate:"dive"`
}
