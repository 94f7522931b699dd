package ai

import (
	"fmt"
	"strings"

	"github.com/nhle/whatsboard/internal/model"
)

// Fixed user-facing strings.
const (
	// FallbackSummary replaces a summary that could not be generated.
	FallbackSummary = "Task analysis mein error aa gaya. Please try again."

	// FallbackReply replaces a chat reply that could not be generated.
	FallbackReply = "Response generate karne mein error aa gaya. Please try again."

	// Greeting seeds every chat session.
	Greeting = "Namaste! Main aapki task ke baare mein help karne ke liye here hoon. Kya puchna chahenge?"

	chatInstruction = "Respond in Hinglish (mix of Hindi and English) in a friendly, casual tone. Keep responses concise."
)

// SummaryPrompt builds the analysis prompt for a task.
func SummaryPrompt(t model.Task) string {
	var sb strings.Builder

	sb.WriteString("Task ka quick analysis karo:\n\n")
	fmt.Fprintf(&sb, "Task: %s\n", t.Title)
	fmt.Fprintf(&sb, "Message: %s\n", t.Snippet)
	fmt.Fprintf(&sb, "Priority: %s\n", t.Priority.Label())
	fmt.Fprintf(&sb, "Deadline: %s\n", deadlineText(t))
	fmt.Fprintf(&sb, "Category: %s\n\n", orDash(t.Category))

	sb.WriteString("Please provide:\n")
	sb.WriteString("1. Quick summary (1-2 lines)\n")
	sb.WriteString("2. Key points to remember\n")
	sb.WriteString("3. Next steps\n")
	sb.WriteString("4. Important considerations\n\n")
	sb.WriteString("Respond in Hinglish (mix of Hindi and English). ")
	sb.WriteString("Format the response in markdown with emojis. Keep it concise.")

	return sb.String()
}

// ChatSystemPrompt builds the system instruction for a chat about t.
func ChatSystemPrompt(t model.Task) string {
	var sb strings.Builder

	sb.WriteString(chatInstruction)
	sb.WriteString("\n\nThe user is asking about this task:\n")
	fmt.Fprintf(&sb, "Task: %s\n", t.Title)
	if t.Snippet != "" {
		fmt.Fprintf(&sb, "Message: %s\n", t.Snippet)
	}
	fmt.Fprintf(&sb, "Priority: %s\n", t.Priority.Label())
	fmt.Fprintf(&sb, "Deadline: %s\n", deadlineText(t))
	if t.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", t.Category)
	}
	if t.From != "" {
		fmt.Fprintf(&sb, "From: %s\n", t.From)
	}

	return sb.String()
}

func deadlineText(t model.Task) string {
	switch {
	case t.HasDeadline() && t.Time != "":
		return t.Deadline.Format("2006-01-02") + " at " + t.Time
	case t.HasDeadline():
		return t.Deadline.Format("2006-01-02")
	case t.Time != "":
		return t.Time
	default:
		return "none"
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
