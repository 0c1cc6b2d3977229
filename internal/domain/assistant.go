package domain

// Tool is a capability enabled on a remote assistant.
type Tool struct {
	Type string `json:"type"`
}

// Endpoints holds the HTTP paths under which an assistant is exposed.
type Endpoints struct {
	Base   string `json:"base"`
	Chat   string `json:"chat"`
	Health string `json:"health"`
}

// Assistant is the static per-assistant configuration plus the remote
// identifier assigned by the completion service. ID is empty until the
// assistant has been provisioned (or supplied via the environment).
type Assistant struct {
	Key                string    `json:"key,omitempty"`
	ID                 string    `json:"-"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Model              string    `json:"model"`
	Temperature        *float64  `json:"temperature,omitempty"`
	Instructions       string    `json:"instructions,omitempty"`
	Tools              []Tool    `json:"tools,omitempty"`
	Endpoints          Endpoints `json:"endpoints"`
	InjectAuditContext bool      `json:"inject_audit_context,omitempty"`
}

// Configured reports whether a remote identifier is known for the assistant.
func (a Assistant) Configured() bool {
	return a.ID != ""
}

// AssistantInfo is the public metadata exposed by the listing endpoint.
// It never carries the remote identifier or the instruction text.
type AssistantInfo struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Model       string    `json:"model"`
	Endpoints   Endpoints `json:"endpoints"`
}
