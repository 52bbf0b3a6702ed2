package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/logger"
	"github.com/smith3v/lingochat/pkg/translation"
)

// translationRequest parses "<word> | <sentence>" against the chat's active conversation:
// source is the conversation language, target the chat's native language.
func (h *Handlers) translationRequest(ctx context.Context, b *bot.Bot, update *models.Update, command string) (activeChat, translation.Request, bool) {
	chatID := update.Message.Chat.ID
	word, sentence, found := strings.Cut(commandArgs(update.Message.Text), "|")
	word, sentence = strings.TrimSpace(word), strings.TrimSpace(sentence)
	if !found || word == "" || sentence == "" {
		sendText(ctx, b, chatID, fmt.Sprintf("Usage: %s <word> | <sentence>", command))
		return activeChat{}, translation.Request{}, false
	}

	active, ok := h.activeConversation(ctx, b, chatID)
	if !ok {
		return activeChat{}, translation.Request{}, false
	}
	native := active.binding.NativeLanguage
	if native == "" {
		native = "en"
	}
	return active, translation.Request{
		Word:       word,
		Sentence:   sentence,
		SourceLang: active.conversation.Language,
		TargetLang: native,
	}, true
}

func formatTranslation(word string, res translation.Result) string {
	return fmt.Sprintf("%s: %s\n%s", word, res.TranslatedWord, res.TranslatedSentence)
}

func (h *Handlers) HandleTranslate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleTranslate")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID

	_, req, ok := h.translationRequest(ctx, b, update, "/translate")
	if !ok {
		return
	}
	res, err := h.translation.Translate(ctx, req)
	if err != nil {
		sendText(ctx, b, chatID, userMessage(err))
		return
	}
	sendText(ctx, b, chatID, formatTranslation(req.Word, res))
}

func (h *Handlers) HandleSave(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleSave")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID

	active, req, ok := h.translationRequest(ctx, b, update, "/save")
	if !ok {
		return
	}
	res, err := h.translation.AddDictionaryEntry(ctx, active.binding.UserID, req)
	if err != nil {
		sendText(ctx, b, chatID, userMessage(err))
		return
	}
	sendText(ctx, b, chatID, "Saved to your dictionary.\n"+formatTranslation(req.Word, res))
}
