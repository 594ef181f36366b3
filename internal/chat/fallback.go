package chat

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const (
	replyNotConfigured = "I'm currently unable to respond as the AI service is not configured. Please try again later."
	replyRateLimited   = "I'm currently experiencing high demand. Please try again in a few moments."
	replyUnclear       = "I'm having trouble understanding. Could you rephrase that?"
	replyUnavailable   = "I'm having technical difficulties right now. Please try again later."
)

// FallbackReply picks the canned reply shown in place of a failed completion.
func FallbackReply(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return replyNotConfigured
	case errors.Is(err, ErrEmptyReply):
		return replyUnclear
	case statusCode(err) == http.StatusTooManyRequests:
		return replyRateLimited
	default:
		return replyUnavailable
	}
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
