package models

// Dashboard is the opaque summary payload served to authenticated users.
// Rendering it is left to the caller; the client only transports it.
type Dashboard struct {
	Data map[string]any `json:"data"`
}
