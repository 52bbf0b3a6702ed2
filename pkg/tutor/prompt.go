package tutor

import (
	"fmt"
	"strings"

	"github.com/smith3v/lingochat/pkg/chat"
)

// summaryPlaceholder stands in for the digest before the partner has spoken.
const summaryPlaceholder = "sentence"

const turnInstruction = "You are a friendly conversation partner who speaks %[1]s. " +
	"The conversation so far: %[2]s. " +
	"Respond only with a JSON object with exactly two keys: " +
	"\"summary\" (at most 15 words recapping the conversation so far) and " +
	"\"answer\" (at most 10 words: your reply or a follow-up question in %[1]s, at beginner level). " +
	"Do not add any other text."

func buildTurnPrompt(language, carried, userMessage string) []chat.Message {
	digest := carried
	if digest == "" {
		digest = summaryPlaceholder
	}
	return []chat.Message{
		{Role: chat.RoleSystem, Content: fmt.Sprintf(turnInstruction, language, digest)},
		{Role: chat.RoleUser, Content: userMessage},
	}
}

func buildHintPrompt(summary, lastMessage string) string {
	return withSummary(summary, fmt.Sprintf("give me only one sentence example answer to this '%s'", lastMessage))
}

func buildAdvancedPrompt(summary, lastMessage, attempted string) string {
	return withSummary(summary, fmt.Sprintf(
		"this is last message '%s', transform this '%s' to make it more linguistically advanced",
		lastMessage, attempted,
	))
}

func withSummary(summary, request string) string {
	if summary == "" {
		return request
	}
	return summary + ", " + request
}

func countPromptTokens(counter TokenCounter, messages []chat.Message) int {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	return counter.Count(sb.String())
}
