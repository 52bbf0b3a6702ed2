package ui

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/lingochat/pkg/languages"
)

func RenderTargetPrompt() (string, *models.InlineKeyboardMarkup, error) {
	keyboard, err := renderLanguageKeyboard("", func(code string) (string, error) {
		return BuildTargetCallback(code)
	}, false)
	if err != nil {
		return "", nil, err
	}
	return "New conversation\n\nWhich language do you want to practice?", keyboard, nil
}

func RenderNativePrompt(target string) (string, *models.InlineKeyboardMarkup, error) {
	keyboard, err := renderLanguageKeyboard(target, func(code string) (string, error) {
		return BuildNativeCallback(target, code)
	}, true)
	if err != nil {
		return "", nil, err
	}
	text := fmt.Sprintf("Practicing: %s\n\nWhich language should translations use?", languages.LabelFor(target))
	return text, keyboard, nil
}

// renderLanguageKeyboard lays languages out two per row, skipping excludeCode.
func renderLanguageKeyboard(excludeCode string, callback func(code string) (string, error), withBack bool) (*models.InlineKeyboardMarkup, error) {
	rows := make([][]models.InlineKeyboardButton, 0, (len(languages.Options)/2)+2)
	currentRow := make([]models.InlineKeyboardButton, 0, 2)

	for _, option := range languages.Options {
		if option.Code == excludeCode {
			continue
		}
		data, err := callback(option.Code)
		if err != nil {
			return nil, err
		}
		currentRow = append(currentRow, models.InlineKeyboardButton{Text: option.Label, CallbackData: data})
		if len(currentRow) == 2 {
			rows = append(rows, currentRow)
			currentRow = make([]models.InlineKeyboardButton, 0, 2)
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}

	if withBack {
		backData, err := BuildBackCallback()
		if err != nil {
			return nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Back", CallbackData: backData}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}
