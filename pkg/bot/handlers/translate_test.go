package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestHandleTranslateUsesConversationLanguages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t, 700)

	f.h.HandleTranslate(ctx, f.bot, newTestUpdate("/translate casa | mi casa es tu casa", 700))
	got := f.client.lastMessageText(t)
	if got != "casa: CASA\nMI CASA ES TU CASA" {
		t.Fatalf("unexpected reply %q", got)
	}
	if f.gateway.src != "ES" || f.gateway.tgt != "EN" {
		t.Fatalf("unexpected language pair %s/%s", f.gateway.src, f.gateway.tgt)
	}

	f.h.HandleTranslate(ctx, f.bot, newTestUpdate("/translate casa | mi casa es tu casa", 700))
	if f.gateway.calls != 1 {
		t.Fatalf("expected the repeat to be cached, got %d calls", f.gateway.calls)
	}
}

func TestHandleTranslateUsage(t *testing.T) {
	f := newFixture(t)
	f.start(t, 701)

	for _, text := range []string{"/translate", "/translate casa", "/translate | mi casa"} {
		f.h.HandleTranslate(context.Background(), f.bot, newTestUpdate(text, 701))
		if got := f.client.lastMessageText(t); got != "Usage: /translate <word> | <sentence>" {
			t.Fatalf("expected usage for %q, got %q", text, got)
		}
	}
	if f.gateway.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", f.gateway.calls)
	}
}

func TestHandleSaveStoresEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t, 702)

	f.h.HandleSave(ctx, f.bot, newTestUpdate("/save gato | el gato duerme", 702))
	if got := f.client.lastMessageText(t); !strings.HasPrefix(got, "Saved to your dictionary.") {
		t.Fatalf("unexpected reply %q", got)
	}

	binding, _ := f.repo.ChatBinding(ctx, 702)
	entries, err := f.repo.ListDictionaryEntries(ctx, binding.UserID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d, %v", len(entries), err)
	}
	if e := entries[0]; e.Word != "gato" || e.TranslatedWord != "GATO" || e.Sentence != "el gato duerme" || e.SourceLang != "es" || e.TargetLang != "en" {
		t.Fatalf("unexpected entry %+v", e)
	}
}
