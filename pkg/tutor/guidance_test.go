package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smith3v/lingochat/pkg/chat"
	"github.com/smith3v/lingochat/pkg/db"
)

func TestGuidanceRequiresARoundTrip(t *testing.T) {
	client := &fakeChat{replies: []string{"unused", "unused"}}
	svc, repo, conv := setupService(t, client)
	ctx := context.Background()

	if _, err := svc.Hint(ctx, conv.ID); !errors.Is(err, ErrGuidanceUnavailable) {
		t.Fatalf("expected ErrGuidanceUnavailable on empty conversation, got %v", err)
	}

	if err := repo.AppendMessage(ctx, &db.Message{ConversationID: conv.ID, IsUser: true, Text: "Hola"}); err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
	if _, err := svc.Hint(ctx, conv.ID); !errors.Is(err, ErrGuidanceUnavailable) {
		t.Fatalf("expected ErrGuidanceUnavailable with one message, got %v", err)
	}
	if _, err := svc.AdvancedVersion(ctx, conv.ID, "yo quiero cafe"); !errors.Is(err, ErrGuidanceUnavailable) {
		t.Fatalf("expected ErrGuidanceUnavailable for advanced, got %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("expected zero gateway calls, got %d", client.callCount())
	}
	if ErrGuidanceUnavailable.Error() != "Please, start conversation before using hint or sentence advanced correction" {
		t.Fatalf("unexpected message: %q", ErrGuidanceUnavailable.Error())
	}
}

func TestAdvancedVersionRequiresAttemptedText(t *testing.T) {
	client := &fakeChat{replies: []string{"unused"}}
	svc, repo, conv := setupService(t, client)
	seedRoundTrip(t, repo, conv.ID, "Hola", "Que quieres tomar?", "ordering drinks")

	_, err := svc.AdvancedVersion(context.Background(), conv.ID, "  ")
	if !errors.Is(err, ErrNoSentenceToCorrect) {
		t.Fatalf("expected ErrNoSentenceToCorrect, got %v", err)
	}
	if err.Error() != "There is no sentence to correct, please use hint instead" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if client.callCount() != 0 {
		t.Fatalf("expected zero gateway calls, got %d", client.callCount())
	}
}

func TestHintUsesLatestMessageAndSummary(t *testing.T) {
	client := &fakeChat{replies: []string{"Quiero un cafe con leche, por favor."}}
	svc, repo, conv := setupService(t, client)
	seedRoundTrip(t, repo, conv.ID, "Hola", "Que quieres tomar?", "ordering drinks")

	hint, err := svc.Hint(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("Hint returned error: %v", err)
	}
	if hint != "Quiero un cafe con leche, por favor." {
		t.Fatalf("expected raw model text, got %q", hint)
	}

	call := client.lastCall()
	if len(call) != 1 || call[0].Role != chat.RoleUser {
		t.Fatalf("expected a single user message, got %+v", call)
	}
	want := "ordering drinks, give me only one sentence example answer to this 'Que quieres tomar?'"
	if call[0].Content != want {
		t.Fatalf("unexpected hint prompt:\n got %q\nwant %q", call[0].Content, want)
	}
	if n := len(messagesOf(t, repo, conv.ID)); n != 2 {
		t.Fatalf("guidance must not persist messages, got %d", n)
	}
}

func TestAdvancedVersionPrompt(t *testing.T) {
	client := &fakeChat{replies: []string{"Me apeteceria un cafe."}}
	svc, repo, conv := setupService(t, client)
	seedRoundTrip(t, repo, conv.ID, "Hola", "Que quieres tomar?", "ordering drinks")

	rewrite, err := svc.AdvancedVersion(context.Background(), conv.ID, "yo quiero cafe")
	if err != nil {
		t.Fatalf("AdvancedVersion returned error: %v", err)
	}
	if rewrite != "Me apeteceria un cafe." {
		t.Fatalf("unexpected rewrite %q", rewrite)
	}
	prompt := client.lastCall()[0].Content
	for _, part := range []string{"ordering drinks, ", "'Que quieres tomar?'", "'yo quiero cafe'", "linguistically advanced"} {
		if !strings.Contains(prompt, part) {
			t.Fatalf("expected prompt to contain %q, got %q", part, prompt)
		}
	}
}

func TestHintWithoutSummaryOmitsPrefix(t *testing.T) {
	client := &fakeChat{replies: []string{"Bien, gracias."}}
	svc, repo, conv := setupService(t, client)
	seedRoundTrip(t, repo, conv.ID, "Hola", "Como estas?", "")
	if err := repo.AppendMessage(context.Background(), &db.Message{ConversationID: conv.ID, IsUser: true, Text: "Y tu?"}); err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}

	if _, err := svc.Hint(context.Background(), conv.ID); err != nil {
		t.Fatalf("Hint returned error: %v", err)
	}
	if got := client.lastCall()[0].Content; got != "give me only one sentence example answer to this 'Y tu?'" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestGuidanceGatewayFailureIsSurfaced(t *testing.T) {
	client := &fakeChat{err: errors.New("connection reset")}
	svc, repo, conv := setupService(t, client)
	seedRoundTrip(t, repo, conv.ID, "Hola", "Que quieres tomar?", "ordering drinks")

	_, err := svc.Hint(context.Background(), conv.ID)
	if !errors.Is(err, ErrChatGateway) {
		t.Fatalf("expected ErrChatGateway, got %v", err)
	}
	_, err = svc.AdvancedVersion(context.Background(), conv.ID, "yo quiero cafe")
	if !errors.Is(err, ErrChatGateway) {
		t.Fatalf("expected ErrChatGateway, got %v", err)
	}
}

func TestGuidanceUnknownConversation(t *testing.T) {
	client := &fakeChat{}
	svc, _, _ := setupService(t, client)

	if _, err := svc.Hint(context.Background(), 999); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
