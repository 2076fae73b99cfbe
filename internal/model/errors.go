package model

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessage          = errors.New("nil message")
	ErrNoService           = errors.New("no auto translate service")
	ErrNoFileContext       = errors.New("unit has no file context")
	ErrUnparsableSource    = errors.New("source text cannot be parsed")
	ErrInvalidTranslation  = errors.New("invalid translation")
	ErrAutoTranslateFailed = errors.New("auto translate failed")
)

// AutoTranslateError is returned when the translation service call fails.
type AutoTranslateError struct {
	UnitID     string
	SourceLang string
	TargetLang string
	Err        error
}

func (e *AutoTranslateError) Error() string {
	return fmt.Sprintf("auto translate unit %s (%s -> %s): %v", e.UnitID, e.SourceLang, e.TargetLang, e.Err)
}

func (e *AutoTranslateError) Unwrap() error { return e.Err }

func (e *AutoTranslateError) Is(target error) bool {
	return target == ErrAutoTranslateFailed
}
