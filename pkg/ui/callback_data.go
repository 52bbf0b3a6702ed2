// Package ui renders inline keyboards for the Telegram front-end and encodes
// their callback data.
package ui

import (
	"errors"
	"strings"

	"github.com/smith3v/lingochat/pkg/languages"
)

const (
	CallbackPrefix     = "n:"
	MaxCallbackDataLen = 64
)

type Step string

const (
	StepTarget Step = "t"
	StepNative Step = "k"
	StepBack   Step = "back"
)

// Action is one press on the new-conversation picker.
type Action struct {
	Step   Step
	Target string
	Native string
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidLanguage     = errors.New("invalid callback language")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildTargetCallback(code string) (string, error) {
	if !languages.IsSupported(code) {
		return "", errInvalidLanguage
	}
	return validateCallbackData(CallbackPrefix + string(StepTarget) + ":" + code)
}

func BuildNativeCallback(target, native string) (string, error) {
	if !languages.IsSupported(target) || !languages.IsSupported(native) {
		return "", errInvalidLanguage
	}
	return validateCallbackData(CallbackPrefix + string(StepNative) + ":" + target + ":" + native)
}

func BuildBackCallback() (string, error) {
	return validateCallbackData(CallbackPrefix + string(StepBack))
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, CallbackPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(strings.TrimPrefix(data, CallbackPrefix), ":")
	switch {
	case len(parts) == 1 && Step(parts[0]) == StepBack:
		return Action{Step: StepBack}, nil
	case len(parts) == 2 && Step(parts[0]) == StepTarget:
		if !languages.IsSupported(parts[1]) {
			return Action{}, errInvalidLanguage
		}
		return Action{Step: StepTarget, Target: parts[1]}, nil
	case len(parts) == 3 && Step(parts[0]) == StepNative:
		if !languages.IsSupported(parts[1]) || !languages.IsSupported(parts[2]) {
			return Action{}, errInvalidLanguage
		}
		return Action{Step: StepNative, Target: parts[1], Native: parts[2]}, nil
	default:
		return Action{}, errInvalidAction
	}
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}
