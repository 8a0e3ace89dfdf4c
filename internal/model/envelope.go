package model

import "encoding/json"

// Envelope is the response shape for every hub operation. Callers rely on
// this exact shape; handlers never let an error escape it.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OK builds a success envelope around data.
func OK(data any) Envelope {
	if data == nil {
		return Envelope{Success: true}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{Success: false, Error: "failed to encode response"}
	}
	return Envelope{Success: true, Data: raw}
}

// Fail builds a failure envelope carrying the error message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// SetSessionRequest installs a backend session into the hub.
type SetSessionRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}
