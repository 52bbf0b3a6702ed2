package tutor

import "testing"

func TestParseModelReply(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		ok          bool
		answer      string
		wantSummary string
	}{
		{name: "answer and summary", raw: `{"answer":"Hola!","summary":"greeting"}`, ok: true, answer: "Hola!", wantSummary: "greeting"},
		{name: "answer only", raw: `{"answer":"Hola!"}`, ok: true, answer: "Hola!"},
		{name: "null summary", raw: `{"answer":"Hola!","summary":null}`, ok: true, answer: "Hola!"},
		{name: "non string summary", raw: `{"answer":"Hola!","summary":3}`, ok: true, answer: "Hola!"},
		{name: "fenced", raw: "```json\n{\"answer\":\"Hola!\"}\n```", ok: true, answer: "Hola!"},
		{name: "surrounding whitespace", raw: "\n  {\"answer\":\"Hola!\"}  \n", ok: true, answer: "Hola!"},
		{name: "blank answer", raw: `{"answer":"   "}`},
		{name: "null literal", raw: `null`},
		{name: "prose", raw: `Sure! {"answer":"Hola"}`},
		{name: "empty", raw: ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply, ok := parseModelReply(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if reply.Answer != tc.answer {
				t.Fatalf("answer = %q, want %q", reply.Answer, tc.answer)
			}
			if tc.wantSummary == "" && reply.Summary != nil {
				t.Fatalf("expected nil summary, got %q", *reply.Summary)
			}
			if tc.wantSummary != "" && (reply.Summary == nil || *reply.Summary != tc.wantSummary) {
				t.Fatalf("summary = %v, want %q", reply.Summary, tc.wantSummary)
			}
		})
	}
}
