// Package model wraps the records of a translation file for the editor:
// null-safe accessors, cached normalized messages and a dirty flag.
package model

import (
	"context"
	"fmt"
	"reflect"

	"tinytrans/internal/domain"
	"tinytrans/internal/logger"
	"tinytrans/internal/message"
	"tinytrans/internal/ports"
)

// stamp identifies one version of the record text. Local writes and the
// record's own version, when it has one, both move it.
type stamp struct {
	writes  uint64
	version uint64
}

type cached struct {
	msg *message.NormalizedMessage
	at  stamp
}

func (c cached) validAt(at stamp) bool { return c.msg != nil && c.at == at }

// TranslationUnit is the editor's view of one record. A unit without a
// record is unbound: every accessor returns a zero value and no operation
// fails.
type TranslationUnit struct {
	file   ports.FileContext
	rec    ports.TransUnit
	dirty  bool
	writes uint64
	source cached
	target cached
}

// NewTranslationUnit wraps rec. file is a lookup reference to the owning
// file and is not owned by the unit. A nil rec, including a typed nil
// pointer, gives an unbound unit.
func NewTranslationUnit(file ports.FileContext, rec ports.TransUnit) *TranslationUnit {
	if isNil(rec) {
		rec = nil
	}
	return &TranslationUnit{file: file, rec: rec}
}

func (u *TranslationUnit) TranslationFile() ports.FileContext { return u.file }

// Record returns the wrapped record and whether the unit is bound.
func (u *TranslationUnit) Record() (ports.TransUnit, bool) {
	return u.rec, u.rec != nil
}

func (u *TranslationUnit) ID() string {
	if rec, ok := u.Record(); ok {
		return rec.ID()
	}
	return ""
}

func (u *TranslationUnit) SourceContent() string {
	if rec, ok := u.Record(); ok {
		return rec.SourceContent()
	}
	return ""
}

func (u *TranslationUnit) TargetContent() string {
	if rec, ok := u.Record(); ok {
		return rec.TargetContent()
	}
	return ""
}

func (u *TranslationUnit) Description() string {
	if rec, ok := u.Record(); ok {
		return rec.Description()
	}
	return ""
}

func (u *TranslationUnit) Meaning() string {
	if rec, ok := u.Record(); ok {
		return rec.Meaning()
	}
	return ""
}

func (u *TranslationUnit) SourceReferences() []domain.SourceReference {
	if rec, ok := u.Record(); ok {
		return rec.SourceReferences()
	}
	return nil
}

func (u *TranslationUnit) TargetState() string {
	if rec, ok := u.Record(); ok {
		return rec.TargetState()
	}
	return ""
}

// SourceContentNormalized returns the parsed source text. The value is
// computed once per record version; a parse failure is kept in the value.
func (u *TranslationUnit) SourceContentNormalized() *message.NormalizedMessage {
	rec, ok := u.Record()
	if !ok {
		return nil
	}
	at := u.stamp()
	if !u.source.validAt(at) {
		msg, err := rec.SourceContentNormalized()
		u.source = cached{msg: normalized(rec.SourceContent(), msg, err, msg), at: at}
	}
	return u.source.msg
}

// TargetContentNormalized returns the parsed target text, checked against
// the parsed source.
func (u *TranslationUnit) TargetContentNormalized() *message.NormalizedMessage {
	rec, ok := u.Record()
	if !ok {
		return nil
	}
	at := u.stamp()
	if !u.target.validAt(at) {
		ref := u.SourceContentNormalized().Message()
		msg, err := rec.TargetContentNormalized()
		u.target = cached{msg: normalized(rec.TargetContent(), msg, err, ref), at: at}
	}
	return u.target.msg
}

func (u *TranslationUnit) IsTranslated() bool {
	state := u.TargetState()
	return state != "" && state != domain.StateNew
}

// IsDirty reports a local change since the unit was loaded.
func (u *TranslationUnit) IsDirty() bool { return u.dirty }

// SetTargetState changes the workflow state. A real change marks the unit
// dirty; the cached messages stay valid since the text is untouched.
func (u *TranslationUnit) SetTargetState(state string) {
	rec, ok := u.Record()
	if !ok || rec.TargetState() == state {
		return
	}
	rec.SetTargetState(state)
	u.dirty = true
}

// Translate writes msg as the new target text.
func (u *TranslationUnit) Translate(msg *message.NormalizedMessage) error {
	rec, ok := u.Record()
	if !ok {
		return nil
	}
	if msg == nil {
		return ErrNilMessage
	}
	if err := rec.Translate(msg.NativeString()); err != nil {
		return fmt.Errorf("translate unit %s: %w", rec.ID(), err)
	}
	u.dirty = true
	u.writes++
	return nil
}

// AutoTranslateUsingService fills an untranslated unit with the service's
// translation of its source. A unit that is already translated, or for which
// the service has no answer, is left as it is.
func (u *TranslationUnit) AutoTranslateUsingService(ctx context.Context, svc ports.AutoTranslator) error {
	rec, ok := u.Record()
	if !ok || u.IsTranslated() {
		return nil
	}
	if svc == nil {
		return ErrNoService
	}
	if u.file == nil {
		return ErrNoFileContext
	}
	source := u.SourceContentNormalized()
	if source.HasParseError() {
		return fmt.Errorf("%w: unit %s: %s", ErrUnparsableSource, rec.ID(), source.ParseError())
	}
	text := source.DisplayText(true)
	src, tgt := u.file.SourceLanguage(), u.file.TargetLanguage()
	logger.Debug("auto translate unit", "module", "model", "action", "auto_translate", "unit", rec.ID(), "src", src, "tgt", tgt)
	translated, err := svc.Translate(ctx, text, src, tgt)
	if err != nil {
		return &AutoTranslateError{UnitID: rec.ID(), SourceLang: src, TargetLang: tgt, Err: err}
	}
	if translated == "" {
		logger.Debug("no translation available", "module", "model", "action", "auto_translate", "unit", rec.ID(), "result", "empty")
		return nil
	}
	next := source.Translate(translated, true)
	if next.HasParseError() {
		return fmt.Errorf("%w: unit %s: %s", ErrInvalidTranslation, rec.ID(), next.ParseError())
	}
	// The service may turn literal text such as "&lt;br/&gt;" into markup;
	// only markers the source has are accepted.
	if issues := next.AddedMarkers(); len(issues) > 0 {
		return fmt.Errorf("%w: unit %s: %s", ErrInvalidTranslation, rec.ID(), issues[0])
	}
	return u.Translate(next)
}

func (u *TranslationUnit) stamp() stamp {
	s := stamp{writes: u.writes}
	if v, ok := u.rec.(ports.Versioned); ok {
		s.version = v.Version()
	}
	return s
}

func isNil(rec ports.TransUnit) bool {
	if rec == nil {
		return true
	}
	v := reflect.ValueOf(rec)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func normalized(original string, msg *message.Message, err error, ref *message.Message) *message.NormalizedMessage {
	if err != nil {
		return message.NewNormalized(original, nil, err.Error(), ref)
	}
	return message.NewNormalized(original, msg, "", ref)
}
