package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/dictionary"
	"github.com/smith3v/lingochat/pkg/logger"
)

func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validUpdate(update) {
		logger.Error("invalid update in HandleExport")
		return
	}
	ctx = updateContext(ctx, update)
	chatID := update.Message.Chat.ID
	log := logger.FromContext(ctx).With("chat_id", chatID)

	if update.Message.Chat.Type != models.ChatTypePrivate {
		sendText(ctx, b, chatID, "The /export command works only in private chat.")
		return
	}

	binding, err := h.store.ChatBinding(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		sendText(ctx, b, chatID, "Please use /start first.")
		return
	}
	if err != nil {
		log.Error("failed to load chat binding", "error", err)
		sendText(ctx, b, chatID, "Failed to export your dictionary. Please try again later.")
		return
	}

	entries, err := h.translation.ListDictionary(ctx, binding.UserID)
	if err != nil {
		log.Error("failed to fetch dictionary for export", "error", err)
		sendText(ctx, b, chatID, "Failed to export your dictionary. Please try again later.")
		return
	}
	if len(entries) == 0 {
		sendText(ctx, b, chatID, "Your dictionary is empty. Use /save <word> | <sentence> to add words.")
		return
	}

	dictionary.SortForExport(entries)
	data, err := dictionary.BuildExportCSV(entries)
	if err != nil {
		log.Error("failed to build export CSV", "error", err)
		sendText(ctx, b, chatID, "Failed to export your dictionary. Please try again later.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: dictionary.ExportFilename(h.now()),
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("Your dictionary export (%d words).", len(entries)),
	})
	if err != nil {
		log.Error("failed to send export document", "error", err)
		sendText(ctx, b, chatID, "Failed to export your dictionary. Please try again later.")
	}
}
