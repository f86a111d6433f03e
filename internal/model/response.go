package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type AuditEntry struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	Entity     string `json:"entity"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}
