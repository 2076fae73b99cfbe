package ports

import (
	"context"

	"tinytrans/internal/domain"
	"tinytrans/internal/message"
)

// TransUnit is one record of a translation file as exposed by the file
// format layer. The normalized accessors fail when the text does not follow
// the message syntax.
type TransUnit interface {
	ID() string
	SourceContent() string
	SourceContentNormalized() (*message.Message, error)
	TargetContent() string
	TargetContentNormalized() (*message.Message, error)
	Description() string
	Meaning() string
	SourceReferences() []domain.SourceReference
	TargetState() string
	SetTargetState(state string)
	// Translate stores native text as the new target.
	Translate(native string) error
}

// Versioned is implemented by records that stamp every change of their text.
type Versioned interface {
	Version() uint64
}

// MessagesFile is a parsed translation file.
type MessagesFile interface {
	SourceLanguage() string
	TargetLanguage() string
	TransUnits() []TransUnit
}

// FileContext is what a unit needs to know about the file it belongs to.
type FileContext interface {
	SourceLanguage() string
	TargetLanguage() string
}

// AutoTranslator translates display text between two language codes. An
// empty result with a nil error means no translation is available.
type AutoTranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
