// pkg/db/models.go
package db

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:80;not null;uniqueIndex"`
	Name         string    `gorm:"size:80;not null"`
	PasswordHash string    `gorm:"size:200;not null"`
	TelegramID   *int64    `gorm:"uniqueIndex"` // set only for accounts created from Telegram
	CreatedAt    time.Time `gorm:"not null"`
}

// Conversation owns an append-only sequence of messages; id order is conversational order.
type Conversation struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:80;not null;uniqueIndex"`
	UserID         uint      `gorm:"not null;index"`
	Language       string    `gorm:"size:16;not null"`
	BeginningDate  time.Time `gorm:"not null"`
	LastMessagedAt time.Time `gorm:"not null"`
	Messages       []Message `gorm:"constraint:OnDelete:CASCADE"`
}

type Message struct {
	ID             uint    `gorm:"primaryKey"`
	ConversationID uint    `gorm:"not null;index"`
	IsUser         bool    `gorm:"not null"`
	Text           string  `gorm:"not null"`
	Summary        *string // set only on partner-authored messages
	CreatedAt      time.Time
}

type DictionaryEntry struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             uint   `gorm:"not null;index"`
	Word               string `gorm:"not null"`
	TranslatedWord     string `gorm:"not null"`
	Sentence           string `gorm:"not null;default:''"`
	TranslatedSentence string `gorm:"not null;default:''"`
	SourceLang         string `gorm:"size:16;not null"`
	TargetLang         string `gorm:"size:16;not null"`
	CreatedAt          time.Time
}

// ChatBinding ties a Telegram chat to its user and currently active conversation.
type ChatBinding struct {
	ChatID         int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID         uint   `gorm:"not null;index"`
	ConversationID *uint  `gorm:"index"`
	NativeLanguage string `gorm:"size:16;not null;default:''"`
	UpdatedAt      time.Time
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&User{}, &Conversation{}, &Message{}, &DictionaryEntry{}, &ChatBinding{}}
}
