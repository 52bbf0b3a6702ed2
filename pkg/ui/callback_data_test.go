package ui

import (
	"strings"
	"testing"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Action
		wantErr bool
	}{
		{name: "target", input: "n:t:es", want: Action{Step: StepTarget, Target: "es"}},
		{name: "native", input: "n:k:es:en", want: Action{Step: StepNative, Target: "es", Native: "en"}},
		{name: "back", input: "n:back", want: Action{Step: StepBack}},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong prefix", input: "s:home", wantErr: true},
		{name: "unknown language", input: "n:t:xx", wantErr: true},
		{name: "unknown native", input: "n:k:es:xx", wantErr: true},
		{name: "missing native", input: "n:k:es", wantErr: true},
		{name: "extra part", input: "n:t:es:en", wantErr: true},
		{name: "too long", input: "n:" + strings.Repeat("x", 70), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallbackData(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestBuildCallbacksRoundTrip(t *testing.T) {
	data, err := BuildNativeCallback("pt", "ru")
	if err != nil {
		t.Fatalf("BuildNativeCallback returned error: %v", err)
	}
	action, err := ParseCallbackData(data)
	if err != nil {
		t.Fatalf("ParseCallbackData returned error: %v", err)
	}
	if action.Target != "pt" || action.Native != "ru" {
		t.Fatalf("unexpected action %+v", action)
	}
	if _, err := BuildTargetCallback("xx"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestRenderNativePromptExcludesTarget(t *testing.T) {
	text, keyboard, err := RenderNativePrompt("es")
	if err != nil {
		t.Fatalf("RenderNativePrompt returned error: %v", err)
	}
	if !strings.Contains(text, "Spanish") {
		t.Fatalf("expected target label in text, got %q", text)
	}

	var buttons int
	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			if strings.HasPrefix(button.CallbackData, "n:k:es:es") {
				t.Fatalf("target language must not be offered as native language")
			}
			buttons++
		}
	}
	last := keyboard.InlineKeyboard[len(keyboard.InlineKeyboard)-1]
	if len(last) != 1 || last[0].CallbackData != "n:back" {
		t.Fatalf("expected back button in last row, got %+v", last)
	}
	if buttons != 9 {
		t.Fatalf("expected 8 languages plus back, got %d buttons", buttons)
	}
}

func TestRenderTargetPromptOffersAllLanguages(t *testing.T) {
	_, keyboard, err := RenderTargetPrompt()
	if err != nil {
		t.Fatalf("RenderTargetPrompt returned error: %v", err)
	}
	var buttons int
	for _, row := range keyboard.InlineKeyboard {
		if len(row) > 2 {
			t.Fatalf("expected at most two buttons per row")
		}
		buttons += len(row)
	}
	if buttons != 9 {
		t.Fatalf("expected 9 language buttons, got %d", buttons)
	}
}
