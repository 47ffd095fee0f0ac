// Package models contains data types and constants shared by the nuchat widgets.
package models

import "time"

// Backend endpoints, relative to the configured base URL
const (
	DefaultBaseURL = "http://localhost:5000/api"

	PathHealth = "/health"
	PathChat   = "/chat"
	PathModels = "/models"
)

// Canned texts shown by the widgets
const (
	// FallbackReply is appended as the assistant message when the provider fails.
	FallbackReply = "Sorry, I encountered an error. Please try again."

	// GenericAPIFailure is used when a non-2xx reply carries no error field.
	GenericAPIFailure = "Failed to get response from ChatGPT"

	// GenericNetworkFailure is used when the backend cannot be reached at all.
	GenericNetworkFailure = "Failed to communicate with the backend"

	HealthConnected   = "Backend connected successfully"
	HealthUnreachable = "Backend server not running. Please start the backend server first."
)

// Timing defaults
const (
	DefaultStatusTimeout  = 3 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultTypingDelayMin = 1500 * time.Millisecond
	DefaultTypingDelayMax = 2500 * time.Millisecond
)

// Model identifiers accepted by the chat backend
const (
	ModelGPT4       = "gpt-4"
	ModelGPT4Turbo  = "gpt-4-turbo-preview"
	ModelGPT35Turbo = "gpt-3.5-turbo"

	// DefaultModel is the model selected when nothing else is configured
	DefaultModel = ModelGPT4
)

// ModelInfo describes one selectable backend model
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BuiltinModels returns the model list used when the backend cannot list its own.
func BuiltinModels() []ModelInfo {
	return []ModelInfo{
		{ID: ModelGPT4, Name: "GPT-4"},
		{ID: ModelGPT4Turbo, Name: "GPT-4 Turbo"},
		{ID: ModelGPT35Turbo, Name: "GPT-3.5 Turbo"},
	}
}

// IsKnownModel reports whether id is one of the built-in model identifiers
func IsKnownModel(id string) bool {
	for _, m := range BuiltinModels() {
		if m.ID == id {
			return true
		}
	}
	return false
}
