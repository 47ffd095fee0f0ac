package models

// ChatRequest is the body posted to the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// Usage is the token accounting returned by the backend. It is informational only.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// ChatResponse is a decoded successful chat reply
type ChatResponse struct {
	Response string
	Model    string
	Usage    *Usage // nil when the backend did not report usage
}

// Text returns the assistant text, tolerating a nil receiver
func (r *ChatResponse) Text() string {
	if r == nil {
		return ""
	}
	return r.Response
}

// HasUsage reports whether usage information was returned
func (r *ChatResponse) HasUsage() bool {
	return r != nil && r.Usage != nil
}
