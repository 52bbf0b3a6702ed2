package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
	"github.com/smith3v/lingochat/pkg/translation"
	"github.com/smith3v/lingochat/pkg/tutor"
	"github.com/smith3v/lingochat/pkg/ui"
)

const helpText = "Commands:\n" +
	"/new <language> <native language>: start a conversation, e.g. /new es en\n" +
	"/hint: suggest an answer to the last message\n" +
	"/advanced <text>: make your sentence more advanced\n" +
	"/translate <word> | <sentence>: translate a word in its context\n" +
	"/save <word> | <sentence>: translate and save to your dictionary\n" +
	"/export: download your dictionary\n\n" +
	"Anything else you write is your next line in the conversation."

const genericFailure = "Something went wrong. Please try again later."

// Store is the persistence the Telegram front-end needs.
type Store interface {
	CreateUser(ctx context.Context, user *db.User) error
	UserByTelegramID(ctx context.Context, telegramID int64) (*db.User, error)
	CreateConversation(ctx context.Context, conv *db.Conversation) error
	GetConversation(ctx context.Context, id uint) (*db.Conversation, error)
	SaveChatBinding(ctx context.Context, binding *db.ChatBinding) error
	ChatBinding(ctx context.Context, chatID int64) (*db.ChatBinding, error)
}

// Handlers serves the chat front-end on top of the tutor and translation services.
type Handlers struct {
	store       Store
	tutor       *tutor.Service
	translation *translation.Service
	now         func() time.Time
}

func New(store Store, tutorSvc *tutor.Service, translationSvc *translation.Service) *Handlers {
	return &Handlers{store: store, tutor: tutorSvc, translation: translationSvc, now: time.Now}
}

// Register wires every command; plain text goes to HandleText via the bot's default handler.
func (h *Handlers) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.HandleNew)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/hint", bot.MatchTypeExact, h.HandleHint)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/advanced", bot.MatchTypePrefix, h.HandleAdvanced)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/translate", bot.MatchTypePrefix, h.HandleTranslate)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/save", bot.MatchTypePrefix, h.HandleSave)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, h.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.CallbackPrefix, bot.MatchTypePrefix, h.HandleNewCallback)
}

func validUpdate(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}

func updateContext(ctx context.Context, update *models.Update) context.Context {
	return logger.WithRequestID(ctx, fmt.Sprintf("tg-%d", update.ID))
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		logger.ErrorContext(ctx, "failed to send message", "chat_id", chatID, "error", err)
	}
}

// commandArgs returns everything after the command word.
func commandArgs(text string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(rest)
}

var userFacingErrors = []error{
	tutor.ErrEmptyUtterance,
	tutor.ErrUtteranceTooLong,
	tutor.ErrNoSentenceToCorrect,
	tutor.ErrGuidanceUnavailable,
	tutor.ErrChatGateway,
	translation.ErrMissingFields,
	translation.ErrUnsupportedLanguage,
	translation.ErrGateway,
	translation.ErrDictionaryStore,
}

// userMessage picks the fixed message for known errors and a generic one otherwise.
func userMessage(err error) string {
	for _, known := range userFacingErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return genericFailure
}

type activeChat struct {
	binding      *db.ChatBinding
	conversation *db.Conversation
}

// activeConversation loads the chat's current conversation or tells the user what to do first.
func (h *Handlers) activeConversation(ctx context.Context, b *bot.Bot, chatID int64) (activeChat, bool) {
	binding, err := h.store.ChatBinding(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		sendText(ctx, b, chatID, "Please use /start first.")
		return activeChat{}, false
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load chat binding", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, genericFailure)
		return activeChat{}, false
	}
	if binding.ConversationID == nil {
		sendText(ctx, b, chatID, "Start a conversation with /new <language> <native language>, e.g. /new es en")
		return activeChat{}, false
	}
	conv, err := h.store.GetConversation(ctx, *binding.ConversationID)
	if errors.Is(err, db.ErrNotFound) {
		sendText(ctx, b, chatID, "Start a conversation with /new <language> <native language>, e.g. /new es en")
		return activeChat{}, false
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load conversation", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, genericFailure)
		return activeChat{}, false
	}
	return activeChat{binding: binding, conversation: conv}, true
}
