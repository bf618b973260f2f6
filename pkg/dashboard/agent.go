package dashboard

type Agent struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Connected    bool     `json:"connected"`
	Capabilities []string `json:"capabilities"`
}

// AgentScreen returns the AI agent screen. There is no agent backend yet, so it
// always reports a disconnected agent.
func AgentScreen() Agent {
	return Agent{
		Name:        "n8n Agent",
		Description: "Connect and interact with your n8n automation agent",
		Connected:   false,
		Capabilities: []string{
			"Workflow automation suggestions",
			"Data analysis and insights",
			"Lead scoring and qualification",
			"Campaign optimization tips",
		},
	}
}
