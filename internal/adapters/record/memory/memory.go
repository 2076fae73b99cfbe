// Package memory keeps translation records in memory. It backs the CLI and
// the tests; file formats plug in behind the same ports.
package memory

import (
	"fmt"

	"tinytrans/internal/domain"
	"tinytrans/internal/message"
	"tinytrans/internal/ports"
)

type UnitSpec struct {
	ID          string
	Source      string // native syntax
	Target      string // native syntax
	Description string
	Meaning     string
	State       string
	References  []domain.SourceReference
}

type Unit struct {
	spec    UnitSpec
	version uint64
}

// NewUnit creates a record. A unit without state gets "new" when it has no
// target and "translated" otherwise.
func NewUnit(s UnitSpec) *Unit {
	if s.State == "" {
		s.State = domain.StateNew
		if s.Target != "" {
			s.State = domain.StateTranslated
		}
	}
	return &Unit{spec: s}
}

func (u *Unit) ID() string { return u.spec.ID }

func (u *Unit) SourceContent() string { return u.spec.Source }

func (u *Unit) SourceContentNormalized() (*message.Message, error) {
	return message.ParseNative(u.spec.Source)
}

func (u *Unit) TargetContent() string { return u.spec.Target }

func (u *Unit) TargetContentNormalized() (*message.Message, error) {
	return message.ParseNative(u.spec.Target)
}

func (u *Unit) Description() string { return u.spec.Description }

func (u *Unit) Meaning() string { return u.spec.Meaning }

func (u *Unit) SourceReferences() []domain.SourceReference {
	out := make([]domain.SourceReference, len(u.spec.References))
	copy(out, u.spec.References)
	return out
}

func (u *Unit) TargetState() string { return u.spec.State }

func (u *Unit) SetTargetState(state string) { u.spec.State = state }

// Translate replaces the target. Text that is not valid native syntax is
// rejected. A new unit becomes translated.
func (u *Unit) Translate(native string) error {
	if _, err := message.ParseNative(native); err != nil {
		return fmt.Errorf("unit %s: %w", u.spec.ID, err)
	}
	u.spec.Target = native
	if u.spec.State == domain.StateNew {
		u.spec.State = domain.StateTranslated
	}
	u.version++
	return nil
}

// SetTarget replaces the target text from outside the editor, as a reload
// would. The version moves so wrappers drop their cached messages.
func (u *Unit) SetTarget(native string) {
	u.spec.Target = native
	u.version++
}

func (u *Unit) Version() uint64 { return u.version }

type File struct {
	sourceLang string
	targetLang string
	units      []*Unit
}

func NewFile(sourceLang, targetLang string, units ...*Unit) *File {
	return &File{sourceLang: sourceLang, targetLang: targetLang, units: units}
}

func (f *File) SourceLanguage() string { return f.sourceLang }

func (f *File) TargetLanguage() string { return f.targetLang }

func (f *File) TransUnits() []ports.TransUnit {
	out := make([]ports.TransUnit, 0, len(f.units))
	for _, u := range f.units {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

var (
	_ ports.TransUnit    = (*Unit)(nil)
	_ ports.Versioned    = (*Unit)(nil)
	_ ports.MessagesFile = (*File)(nil)
)
