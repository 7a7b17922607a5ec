// Package ai provides response cleaning utilities for handling malformed LLM output.
package ai

import (
	"encoding/json"
	"strings"
)

// ResponseCleaner salvages a JSON object out of free-form LLM output. Models
// routinely wrap JSON in markdown fences or surround it with commentary.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

// ExtractJSON returns the substring between the first '{' and the last '}'
// after stripping markdown fences. ok is false when no object is present.
func (rc *ResponseCleaner) ExtractJSON(response string) (string, bool) {
	response = rc.removeMarkdownBlocks(response)
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return response[start : end+1], true
}

// DecodeObject extracts the embedded JSON object and unmarshals it into v.
func (rc *ResponseCleaner) DecodeObject(response string, v any) error {
	block, ok := rc.ExtractJSON(response)
	if !ok {
		return &JSONValidationError{Original: response, Message: "no JSON object in response"}
	}
	if err := json.Unmarshal([]byte(block), v); err != nil {
		return &JSONValidationError{Original: response, Cleaned: block, Message: "extracted block is not valid JSON: " + err.Error()}
	}
	return nil
}

// removeMarkdownBlocks removes ```json / ``` fences from the response.
func (rc *ResponseCleaner) removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// IsValidJSON checks if a string is valid JSON.
func (rc *ResponseCleaner) IsValidJSON(response string) bool {
	var temp any
	return json.Unmarshal([]byte(response), &temp) == nil
}

// JSONValidationError represents a JSON salvage failure.
type JSONValidationError struct {
	Original string
	Cleaned  string
	Message  string
}

func (e *JSONValidationError) Error() string {
	return e.Message
}
