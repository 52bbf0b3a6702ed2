package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/auth"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
)

// telegramPasswordHash is not a valid bcrypt hash, so password login never succeeds
// for accounts created from Telegram.
const telegramPasswordHash = "!"

func telegramUsername(userID int64) string {
	return fmt.Sprintf("%s%d", auth.TelegramUsernamePrefix, userID)
}

func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleStart")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID
	log := logger.FromContext(ctx).With("chat_id", chatID)

	if _, err := h.store.ChatBinding(ctx, chatID); err == nil {
		sendText(ctx, b, chatID, "Welcome back!\n\n"+helpText)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		log.Error("failed to load chat binding", "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
		return
	}

	user, err := h.ensureUser(ctx, update.Message.From)
	if err != nil {
		log.Error("failed to create telegram user", "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
		return
	}
	if err := h.store.SaveChatBinding(ctx, &db.ChatBinding{ChatID: chatID, UserID: user.ID, NativeLanguage: "en"}); err != nil {
		log.Error("failed to save chat binding", "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
		return
	}

	log.Info("telegram chat registered", "user_id", user.ID)
	sendText(ctx, b, chatID, "Hi! I am your language partner.\n\n"+helpText)
}

func (h *Handlers) ensureUser(ctx context.Context, from *models.User) (*db.User, error) {
	user, err := h.store.UserByTelegramID(ctx, from.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	username := telegramUsername(from.ID)
	name := strings.TrimSpace(strings.Join([]string{from.FirstName, from.LastName}, " "))
	if name == "" {
		name = from.Username
	}
	if name == "" {
		name = username
	}
	telegramID := from.ID
	user = &db.User{Username: username, Name: name, PasswordHash: telegramPasswordHash, TelegramID: &telegramID}
	if err := h.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
