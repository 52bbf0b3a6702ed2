// Package translation looks up word and context-sentence translations through a
// cached upstream gateway and keeps each user's dictionary.
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/smith3v/lingochat/pkg/cache"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/languages"
	"github.com/smith3v/lingochat/pkg/logger"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMissingFields       = errors.New("Word, sentence and both languages are required")
	ErrUnsupportedLanguage = errors.New("Unsupported language")
	ErrGateway             = errors.New("Failed to get a response from the translation service")
	ErrDictionaryStore     = errors.New("Failed to save the word to your dictionary")
)

type Request struct {
	Word       string `json:"word"`
	Sentence   string `json:"sentence"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type Result struct {
	TranslatedWord     string `json:"translated_word"`
	TranslatedSentence string `json:"translated_sentence"`
}

// Store persists dictionary entries.
type Store interface {
	CreateDictionaryEntry(ctx context.Context, entry *db.DictionaryEntry) error
	ListDictionaryEntries(ctx context.Context, userID uint) ([]db.DictionaryEntry, error)
}

type Service struct {
	gateway Gateway
	cache   cache.Cache
	store   Store
	group   singleflight.Group
}

func NewService(gateway Gateway, c cache.Cache, store Store) *Service {
	return &Service{gateway: gateway, cache: c, store: store}
}

// cachedTranslation is the value stored under (word, source, target). The
// sentence pair is the most recent context the word was looked up with.
type cachedTranslation struct {
	TranslatedWord     string `json:"translated_word"`
	Sentence           string `json:"sentence"`
	TranslatedSentence string `json:"translated_sentence"`
}

type normalized struct {
	word, sentence string
	source, target languages.Language
}

func normalize(req Request) (normalized, error) {
	n := normalized{
		word:     strings.TrimSpace(req.Word),
		sentence: strings.TrimSpace(req.Sentence),
	}
	src, tgt := strings.TrimSpace(req.SourceLang), strings.TrimSpace(req.TargetLang)
	if n.word == "" || n.sentence == "" || src == "" || tgt == "" {
		return normalized{}, ErrMissingFields
	}
	var ok bool
	if n.source, ok = languages.Lookup(src); !ok {
		return normalized{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, src)
	}
	if n.target, ok = languages.Lookup(tgt); !ok {
		return normalized{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, tgt)
	}
	return n, nil
}

func cacheKey(n normalized) string {
	return n.word + "|" + n.source.Code + "|" + n.target.Code
}

// sourceCode strips regional variants, which the upstream only accepts for targets.
func sourceCode(lang languages.Language) string {
	code, _, _ := strings.Cut(lang.Upstream, "-")
	return code
}

// Translate returns the translation of the word and of its context sentence.
func (s *Service) Translate(ctx context.Context, req Request) (Result, error) {
	n, err := normalize(req)
	if err != nil {
		return Result{}, err
	}
	return s.lookup(ctx, n)
}

func (s *Service) lookup(ctx context.Context, n normalized) (Result, error) {
	key := cacheKey(n)
	if cached, ok := s.cached(key); ok && cached.Sentence == n.sentence {
		return Result{TranslatedWord: cached.TranslatedWord, TranslatedSentence: cached.TranslatedSentence}, nil
	}

	// The shared fetch must outlive any single waiter; the gateway's own timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key+"|"+n.sentence, func() (any, error) {
		return s.fetch(fetchCtx, key, n)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return res.Val.(Result), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// fetch re-checks the cache, then asks the gateway only for what is missing.
func (s *Service) fetch(ctx context.Context, key string, n normalized) (Result, error) {
	log := logger.FromContext(ctx).With("source_lang", n.source.Code, "target_lang", n.target.Code)

	cached, hit := s.cached(key)
	if hit && cached.Sentence == n.sentence {
		return Result{TranslatedWord: cached.TranslatedWord, TranslatedSentence: cached.TranslatedSentence}, nil
	}

	texts := []string{n.word, n.sentence}
	if hit {
		texts = []string{n.sentence}
	}
	out, err := s.gateway.Translate(ctx, texts, sourceCode(n.source), n.target.Upstream)
	if err != nil {
		log.Error("translation request failed", "texts", len(texts), "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	entry := cachedTranslation{Sentence: n.sentence}
	if hit {
		entry.TranslatedWord = cached.TranslatedWord
		entry.TranslatedSentence = out[0]
	} else {
		entry.TranslatedWord = out[0]
		entry.TranslatedSentence = out[1]
	}
	if enc, err := json.Marshal(entry); err == nil {
		if err := s.cache.Set(key, enc); err != nil {
			log.Warn("failed to cache translation", "error", err)
		}
	}
	return Result{TranslatedWord: entry.TranslatedWord, TranslatedSentence: entry.TranslatedSentence}, nil
}

func (s *Service) cached(key string) (cachedTranslation, bool) {
	raw, ok := s.cache.Get(key)
	if !ok {
		return cachedTranslation{}, false
	}
	var entry cachedTranslation
	if err := json.Unmarshal(raw, &entry); err != nil {
		return cachedTranslation{}, false
	}
	return entry, true
}

// AddDictionaryEntry translates like Translate and saves the result to the user's dictionary.
func (s *Service) AddDictionaryEntry(ctx context.Context, userID uint, req Request) (Result, error) {
	n, err := normalize(req)
	if err != nil {
		return Result{}, err
	}
	res, err := s.lookup(ctx, n)
	if err != nil {
		return Result{}, err
	}

	entry := &db.DictionaryEntry{
		UserID:             userID,
		Word:               n.word,
		TranslatedWord:     res.TranslatedWord,
		Sentence:           n.sentence,
		TranslatedSentence: res.TranslatedSentence,
		SourceLang:         n.source.Code,
		TargetLang:         n.target.Code,
	}
	if err := s.store.CreateDictionaryEntry(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "failed to save dictionary entry", "user_id", userID, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrDictionaryStore, err)
	}
	return res, nil
}

func (s *Service) ListDictionary(ctx context.Context, userID uint) ([]db.DictionaryEntry, error) {
	return s.store.ListDictionaryEntries(ctx, userID)
}
