package db

import (
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"
)

func (r *Repository) CreateConversation(ctx context.Context, conv *Conversation) error {
	now := time.Now().UTC()
	if conv.BeginningDate.IsZero() {
		conv.BeginningDate = now
	}
	if conv.LastMessagedAt.IsZero() {
		conv.LastMessagedAt = conv.BeginningDate
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Conversation{}).Where("name = ?", conv.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConversationNameTaken
		}
		if err := tx.Create(conv).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConversationNameTaken
			}
			return err
		}
		return nil
	})
}

func (r *Repository) ListConversations(ctx context.Context, userID uint) ([]Conversation, error) {
	conversations := []Conversation{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *Repository) GetConversation(ctx context.Context, id uint) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetUserConversation answers ErrNotFound for conversations owned by someone else.
func (r *Repository) GetUserConversation(ctx context.Context, userID, id uint) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes the conversation and all of its messages.
func (r *Repository) DeleteConversation(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv Conversation
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conv.ID).Delete(&Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&ChatBinding{}).
			Where("conversation_id = ?", conv.ID).
			Update("conversation_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&conv).Error
	})
}

// AppendMessage stores msg and bumps the conversation's last activity.
func (r *Repository) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_messaged_at", msg.CreatedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(msg).Error
	})
}

// LastMessages returns up to n most recent messages in chronological order.
func (r *Repository) LastMessages(ctx context.Context, conversationID uint, n int) ([]Message, error) {
	var messages []Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(n).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

func (r *Repository) ListMessages(ctx context.Context, conversationID uint) ([]Message, error) {
	messages := []Message{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *Repository) CountMessages(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
