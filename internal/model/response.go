package model

// Response is a generic struct for API responses
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// Answer is the assistant's reply to a single question.
type Answer struct {
	Question string `json:"question"`
	Intent   Intent `json:"intent"`
	Location string `json:"location,omitempty"`
	Reply    string `json:"reply"`
	Cached   bool   `json:"cached"`
}
