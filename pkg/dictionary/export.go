// Package dictionary renders a user's saved words for download.
package dictionary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smith3v/lingochat/pkg/db"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{"word", "translated_word", "sentence", "translated_sentence", "source_lang", "target_lang"}

// BuildExportCSV writes entries as a spreadsheet-friendly CSV: UTF-8 BOM, CRLF
// line endings and a header row.
func BuildExportCSV(entries []db.DictionaryEntry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{e.Word, e.TranslatedWord, e.Sentence, e.TranslatedSentence, e.SourceLang, e.TargetLang}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("dictionary-%s.csv", now.Format("20060102"))
}

// SortForExport orders entries by language pair, then word, then insertion.
func SortForExport(entries []db.DictionaryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.SourceLang != b.SourceLang {
			return a.SourceLang < b.SourceLang
		}
		if a.TargetLang != b.TargetLang {
			return a.TargetLang < b.TargetLang
		}
		if wa, wb := strings.ToLower(a.Word), strings.ToLower(b.Word); wa != wb {
			return wa < wb
		}
		return a.ID < b.ID
	})
}
