package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/dictionary"
	"github.com/smith3v/lingochat/pkg/translation"
)

type dictionaryEntryResponse struct {
	ID                        uint      `json:"id"`
	Word                      string    `json:"word"`
	TranslatedWord            string    `json:"translated_word"`
	ContextSentence           string    `json:"context_sentence"`
	TranslatedContextSentence string    `json:"translated_context_sentence"`
	SourceLang                string    `json:"source_lang"`
	TargetLang                string    `json:"target_lang"`
	CreatedAt                 time.Time `json:"created_at"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request, _ *db.User) {
	var req translation.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.translation.Translate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAddDictionaryEntry(w http.ResponseWriter, r *http.Request, user *db.User) {
	var req translation.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.translation.AddDictionaryEntry(r.Context(), user.ID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"translated_word":             res.TranslatedWord,
		"translated_context_sentence": res.TranslatedSentence,
	})
}

func (s *Server) handleListDictionary(w http.ResponseWriter, r *http.Request, user *db.User) {
	entries, err := s.translation.ListDictionary(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]dictionaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dictionaryEntryResponse{
			ID:                        e.ID,
			Word:                      e.Word,
			TranslatedWord:            e.TranslatedWord,
			ContextSentence:           e.Sentence,
			TranslatedContextSentence: e.TranslatedSentence,
			SourceLang:                e.SourceLang,
			TargetLang:                e.TargetLang,
			CreatedAt:                 e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportDictionary(w http.ResponseWriter, r *http.Request, user *db.User) {
	entries, err := s.translation.ListDictionary(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dictionary.SortForExport(entries)
	data, err := dictionary.BuildExportCSV(entries)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+dictionary.ExportFilename(s.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
