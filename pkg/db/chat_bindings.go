package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) SaveChatBinding(ctx context.Context, binding *ChatBinding) error {
	binding.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "conversation_id", "native_language", "updated_at"}),
	}).Create(binding).Error
}

func (r *Repository) ChatBinding(ctx context.Context, chatID int64) (*ChatBinding, error) {
	var binding ChatBinding
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &binding, nil
}
