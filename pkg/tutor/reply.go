package tutor

import (
	"encoding/json"
	"strings"
)

type modelReply struct {
	Answer  string
	Summary *string
}

// parseModelReply accepts a JSON object with a non-empty string "answer" and an
// optional string "summary". Anything else is unusable.
func parseModelReply(raw string) (modelReply, bool) {
	body := stripCodeFence(strings.TrimSpace(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil || fields == nil {
		return modelReply{}, false
	}

	var answer string
	rawAnswer, ok := fields["answer"]
	if !ok || json.Unmarshal(rawAnswer, &answer) != nil || strings.TrimSpace(answer) == "" {
		return modelReply{}, false
	}

	reply := modelReply{Answer: answer}
	var summary string
	if rawSummary, ok := fields["summary"]; ok && json.Unmarshal(rawSummary, &summary) == nil {
		if summary = strings.TrimSpace(summary); summary != "" {
			reply.Summary = &summary
		}
	}
	return reply, true
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
