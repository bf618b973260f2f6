// Package dashboard provides the read-only content of the settings and AI agent screens.
package dashboard

// StatusType styles a settings item badge.
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusWarning StatusType = "warning"
	StatusInfo    StatusType = "info"
)

type SettingItem struct {
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Type   StatusType `json:"type"`
}

type SettingsSection struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Items       []SettingItem `json:"items"`
}

// Settings returns the settings screen. Only the webhook item reflects the
// running configuration; everything else is display content.
func Settings(webhookURL string) []SettingsSection {
	webhook := SettingItem{Name: "n8n Webhook URL", Status: "Active", Type: StatusSuccess}
	if webhookURL == "" {
		webhook = SettingItem{Name: "n8n Webhook URL", Status: "Not Configured", Type: StatusWarning}
	}

	return []SettingsSection{
		{
			ID:          "api-keys",
			Title:       "API Keys",
			Description: "Manage your third-party service integrations",
			Icon:        "Key",
			Items: []SettingItem{
				{Name: "Apollo API Key", Status: "Connected", Type: StatusSuccess},
				{Name: "Google Maps API Key", Status: "Connected", Type: StatusSuccess},
				{Name: "LeadMagic API Key", Status: "Not Connected", Type: StatusWarning},
				{Name: "SmartLead API Key", Status: "Not Connected", Type: StatusWarning},
			},
		},
		{
			ID:          "database",
			Title:       "Database",
			Description: "Configure your data storage settings",
			Icon:        "Database",
			Items: []SettingItem{
				{Name: "Supabase Connection", Status: "Active", Type: StatusSuccess},
				{Name: "Data Retention", Status: "90 days", Type: StatusInfo},
				{Name: "Backup Schedule", Status: "Daily", Type: StatusInfo},
			},
		},
		{
			ID:          "webhooks",
			Title:       "Webhooks",
			Description: "Manage webhook endpoints and notifications",
			Icon:        "Globe",
			Items: []SettingItem{
				webhook,
				{Name: "Workflow Notifications", Status: "Enabled", Type: StatusSuccess},
			},
		},
	}
}
