package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tinytrans/internal/domain"
	"tinytrans/internal/message"
	"tinytrans/internal/model"
	"tinytrans/internal/ports"
)

var (
	ErrUnitNotFound = errors.New("unit not found")
	ErrUnknownState = errors.New("unknown target state")
)

// UnitView is the shape the editor renders for one unit.
type UnitView struct {
	ID          string                   `json:"id"`
	Source      string                   `json:"source"`
	Target      string                   `json:"target"`
	State       string                   `json:"state"`
	Description string                   `json:"description,omitempty"`
	Meaning     string                   `json:"meaning,omitempty"`
	References  []domain.SourceReference `json:"references,omitempty"`
	Translated  bool                     `json:"translated"`
	Dirty       bool                     `json:"dirty"`
	SourceError string                   `json:"source_error,omitempty"`
	TargetError string                   `json:"target_error,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty"`
}

// FileSummary is the header line of the editor.
type FileSummary struct {
	Name         string `json:"name"`
	SourceLang   string `json:"source_lang"`
	TargetLang   string `json:"target_lang"`
	Units        int    `json:"units"`
	Untranslated int    `json:"untranslated"`
	HasErrors    bool   `json:"has_errors"`
	Dirty        bool   `json:"dirty"`
}

type UnitAPI struct {
	file *model.TranslationFile
	svc  ports.AutoTranslator
}

// NewUnitAPI binds the editor to one file. svc may be nil when no
// auto-translate backend is configured.
func NewUnitAPI(file *model.TranslationFile, svc ports.AutoTranslator) *UnitAPI {
	return &UnitAPI{file: file, svc: svc}
}

func (a *UnitAPI) Summary() FileSummary {
	f := a.file
	return FileSummary{
		Name:         f.Name(),
		SourceLang:   f.SourceLanguage(),
		TargetLang:   f.TargetLanguage(),
		Units:        f.NumberOfTransUnits(),
		Untranslated: f.NumberOfUntranslatedTransUnits(),
		HasErrors:    f.HasErrors(),
		Dirty:        f.IsDirty(),
	}
}

func (a *UnitAPI) List() []UnitView {
	units := a.file.Units()
	out := make([]UnitView, 0, len(units))
	for _, u := range units {
		out = append(out, view(u))
	}
	return out
}

func (a *UnitAPI) Get(id string) (UnitView, error) {
	u, err := a.unit(id)
	if err != nil {
		return UnitView{}, err
	}
	return view(u), nil
}

// Translate sets the target of a unit from display text. Text that does not
// parse is rejected and the unit stays untouched.
func (a *UnitAPI) Translate(id, text string) (UnitView, error) {
	u, err := a.unit(id)
	if err != nil {
		return UnitView{}, err
	}
	src := u.SourceContentNormalized()
	if src == nil || src.HasParseError() {
		return UnitView{}, fmt.Errorf("unit %s: %w", id, model.ErrUnparsableSource)
	}
	m := src.Translate(text, true)
	if m.HasParseError() {
		return UnitView{}, fmt.Errorf("unit %s: %w: %s", id, model.ErrInvalidTranslation, m.ParseError())
	}
	if issues := m.Validate(); len(issues) > 0 {
		return UnitView{}, fmt.Errorf("unit %s: %w: %s", id, model.ErrInvalidTranslation, joinIssues(issues))
	}
	if err := u.Translate(m); err != nil {
		return UnitView{}, err
	}
	return view(u), nil
}

func (a *UnitAPI) SetState(id, state string) (UnitView, error) {
	u, err := a.unit(id)
	if err != nil {
		return UnitView{}, err
	}
	if !domain.IsKnownState(state) {
		return UnitView{}, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	u.SetTargetState(state)
	return view(u), nil
}

func (a *UnitAPI) AutoTranslate(id string) (UnitView, error) {
	ctx := context.Background()
	u, err := a.unit(id)
	if err != nil {
		return UnitView{}, err
	}
	if err := u.AutoTranslateUsingService(ctx, a.svc); err != nil {
		return UnitView{}, err
	}
	return view(u), nil
}

// AutoTranslateAll runs the service over every untranslated unit and stops at
// the first failure. It returns how many units changed.
func (a *UnitAPI) AutoTranslateAll() (int, error) {
	ctx := context.Background()
	n := 0
	for _, u := range a.file.Units() {
		if u.IsTranslated() {
			continue
		}
		before := u.TargetContent()
		if err := u.AutoTranslateUsingService(ctx, a.svc); err != nil {
			return n, err
		}
		if u.TargetContent() != before {
			n++
		}
	}
	return n, nil
}

func (a *UnitAPI) unit(id string) (*model.TranslationUnit, error) {
	u, ok := a.file.Unit(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
	}
	return u, nil
}

func view(u *model.TranslationUnit) UnitView {
	v := UnitView{
		ID:          u.ID(),
		State:       u.TargetState(),
		Description: u.Description(),
		Meaning:     u.Meaning(),
		References:  u.SourceReferences(),
		Translated:  u.IsTranslated(),
		Dirty:       u.IsDirty(),
	}
	if src := u.SourceContentNormalized(); src != nil {
		v.Source = src.DisplayText(true)
		v.SourceError = src.ParseError()
	}
	if tgt := u.TargetContentNormalized(); tgt != nil {
		v.Target = tgt.DisplayText(true)
		v.TargetError = tgt.ParseError()
		for _, w := range tgt.ValidateWarnings() {
			v.Warnings = append(v.Warnings, w.String())
		}
	}
	return v
}

func joinIssues(issues []message.Issue) string {
	s := make([]string, 0, len(issues))
	for _, i := range issues {
		s = append(s, i.String())
	}
	return strings.Join(s, "; ")
}
