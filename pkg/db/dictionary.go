package db

import (
	"context"
	"time"
)

func (r *Repository) CreateDictionaryEntry(ctx context.Context, entry *DictionaryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) ListDictionaryEntries(ctx context.Context, userID uint) ([]DictionaryEntry, error) {
	entries := []DictionaryEntry{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
