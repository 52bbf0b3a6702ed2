package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/languages"
	"github.com/smith3v/lingochat/pkg/logger"
	"github.com/smith3v/lingochat/pkg/ui"
)

const newUsage = "Usage: /new <language> <native language>, e.g. /new es en\nSupported languages: "

// HandleNew starts a conversation in the requested language and makes it the chat's
// active one. Without arguments it shows the language picker.
func (h *Handlers) HandleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleNew")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID
	usage := newUsage + strings.Join(languages.SupportedCodes(), ", ")

	args := strings.Fields(commandArgs(update.Message.Text))
	if len(args) == 0 {
		text, keyboard, err := ui.RenderTargetPrompt()
		if err != nil {
			logger.ErrorContext(ctx, "failed to render language picker", "error", err)
			sendText(ctx, b, chatID, usage)
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: keyboard}); err != nil {
			logger.ErrorContext(ctx, "failed to send language picker", "chat_id", chatID, "error", err)
		}
		return
	}
	if len(args) > 2 {
		sendText(ctx, b, chatID, usage)
		return
	}
	target, ok := languages.Lookup(args[0])
	if !ok {
		sendText(ctx, b, chatID, usage)
		return
	}
	native := "en"
	if len(args) == 2 {
		lang, ok := languages.Lookup(args[1])
		if !ok {
			sendText(ctx, b, chatID, usage)
			return
		}
		native = lang.Code
	}

	sendText(ctx, b, chatID, h.startConversation(ctx, chatID, target, native))
}

// HandleNewCallback drives the inline language picker.
func (h *Handlers) HandleNewCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleNewCallback")
		return
	}
	ctx = updateContext(ctx, update)

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.ErrorContext(ctx, "failed to answer picker callback query", "error", err)
		}
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		answerCallback("Message missing")
		return
	}
	msg := message.Message

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		answerCallback("Unknown action")
		return
	}

	var (
		text     string
		keyboard *models.InlineKeyboardMarkup
	)
	switch action.Step {
	case ui.StepBack:
		text, keyboard, err = ui.RenderTargetPrompt()
	case ui.StepTarget:
		text, keyboard, err = ui.RenderNativePrompt(action.Target)
	case ui.StepNative:
		target, _ := languages.Lookup(action.Target)
		native, _ := languages.Normalize(action.Native)
		text = h.startConversation(ctx, msg.Chat.ID, target, native)
		keyboard = &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to render language picker", "error", err)
		answerCallback("Failed")
		return
	}

	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to edit picker message", "chat_id", msg.Chat.ID, "error", err)
		answerCallback("Failed")
		return
	}
	answerCallback("")
}

// startConversation creates a conversation for the chat's user and makes it active.
// It returns the text to show the user.
func (h *Handlers) startConversation(ctx context.Context, chatID int64, target languages.Language, native string) string {
	if native == target.Code {
		return "The conversation language must differ from your native language."
	}

	binding, err := h.store.ChatBinding(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		return "Please use /start first."
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load chat binding", "chat_id", chatID, "error", err)
		return genericFailure
	}

	now := h.now().UTC()
	conv := &db.Conversation{
		Name:     fmt.Sprintf("telegram-%d-%s", chatID, now.Format("20060102T150405.000")),
		UserID:   binding.UserID,
		Language: target.Code,
	}
	if err := h.store.CreateConversation(ctx, conv); err != nil {
		logger.ErrorContext(ctx, "failed to create conversation", "chat_id", chatID, "error", err)
		return genericFailure
	}
	binding.ConversationID = &conv.ID
	binding.NativeLanguage = native
	if err := h.store.SaveChatBinding(ctx, binding); err != nil {
		logger.ErrorContext(ctx, "failed to save chat binding", "chat_id", chatID, "error", err)
		return genericFailure
	}

	return fmt.Sprintf("New conversation in %s started. Say hello!", target.Label)
}

// HandleText treats any non-command message as the user's next utterance.
func (h *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("received invalid update in HandleText")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		sendText(ctx, b, chatID, helpText)
		return
	}

	active, ok := h.activeConversation(ctx, b, chatID)
	if !ok {
		return
	}
	reply, err := h.tutor.SubmitUtterance(ctx, active.conversation.ID, text)
	if err != nil {
		logger.WarnContext(ctx, "turn failed", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, userMessage(err))
		return
	}
	sendText(ctx, b, chatID, reply)
}

func (h *Handlers) HandleHint(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleHint")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID

	active, ok := h.activeConversation(ctx, b, chatID)
	if !ok {
		return
	}
	hint, err := h.tutor.Hint(ctx, active.conversation.ID)
	if err != nil {
		sendText(ctx, b, chatID, userMessage(err))
		return
	}
	sendText(ctx, b, chatID, hint)
}

func (h *Handlers) HandleAdvanced(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleAdvanced")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID

	active, ok := h.activeConversation(ctx, b, chatID)
	if !ok {
		return
	}
	rewrite, err := h.tutor.AdvancedVersion(ctx, active.conversation.ID, commandArgs(update.Message.Text))
	if err != nil {
		sendText(ctx, b, chatID, userMessage(err))
		return
	}
	sendText(ctx, b, chatID, rewrite)
}
