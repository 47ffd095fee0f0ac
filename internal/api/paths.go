// Package api provides the HTTP client for the chat backend.
package api

// GJSON paths for fields in backend replies.
const (
	PathResponse = "response"
	PathModel    = "model"
	PathError    = "error"
	PathStatus   = "status"
	PathModels   = "models"

	PathUsage            = "usage"
	PathPromptTokens     = "usage.prompt_tokens"
	PathCompletionTokens = "usage.completion_tokens"
	PathTotalTokens      = "usage.total_tokens"

	// relative to an element of models
	PathModelID   = "id"
	PathModelName = "name"
)

// maxErrorBody bounds how much of a failed reply is read
const maxErrorBody = 4096
