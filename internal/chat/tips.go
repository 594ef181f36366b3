package chat

import "strings"

const (
	tipEmpty       = "Try asking about ADHD management strategies or breaking down a complex task."
	tipFocus       = "I can help you create a focus plan or suggest concentration techniques."
	tipOverwhelmed = "Feeling overwhelmed? Let's break down your tasks into smaller steps."
	tipTime        = "Need help with time management? I can suggest strategies that work for ADHD."
)

// Tip suggests what to ask based on the message being typed.
func Tip(draft string) string {
	d := strings.ToLower(draft)
	switch {
	case strings.Contains(d, "focus"), strings.Contains(d, "concentrate"):
		return tipFocus
	case strings.Contains(d, "overwhelm"), strings.Contains(d, "stress"):
		return tipOverwhelmed
	case strings.Contains(d, "time"), strings.Contains(d, "schedule"):
		return tipTime
	default:
		return tipEmpty
	}
}
