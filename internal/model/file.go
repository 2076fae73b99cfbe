package model

import "tinytrans/internal/ports"

// TranslationFile owns the units of one messages file and serves as their
// file context.
type TranslationFile struct {
	name       string
	sourceLang string
	targetLang string
	units      []*TranslationUnit
	byID       map[string]*TranslationUnit
}

func NewTranslationFile(name string, mf ports.MessagesFile) *TranslationFile {
	f := &TranslationFile{name: name, byID: map[string]*TranslationUnit{}}
	if mf == nil {
		return f
	}
	f.sourceLang = mf.SourceLanguage()
	f.targetLang = mf.TargetLanguage()
	for _, rec := range mf.TransUnits() {
		u := NewTranslationUnit(f, rec)
		f.units = append(f.units, u)
		if id := u.ID(); id != "" {
			if _, dup := f.byID[id]; !dup {
				f.byID[id] = u
			}
		}
	}
	return f
}

func (f *TranslationFile) Name() string { return f.name }

func (f *TranslationFile) SourceLanguage() string { return f.sourceLang }

func (f *TranslationFile) TargetLanguage() string { return f.targetLang }

// Units returns the units in file order.
func (f *TranslationFile) Units() []*TranslationUnit {
	out := make([]*TranslationUnit, len(f.units))
	copy(out, f.units)
	return out
}

func (f *TranslationFile) Unit(id string) (*TranslationUnit, bool) {
	u, ok := f.byID[id]
	return u, ok
}

func (f *TranslationFile) NumberOfTransUnits() int { return len(f.units) }

func (f *TranslationFile) NumberOfUntranslatedTransUnits() int {
	n := 0
	for _, u := range f.units {
		if !u.IsTranslated() {
			n++
		}
	}
	return n
}

// HasErrors reports whether any source or target text fails to parse.
func (f *TranslationFile) HasErrors() bool {
	for _, u := range f.units {
		if s := u.SourceContentNormalized(); s != nil && s.HasParseError() {
			return true
		}
		if t := u.TargetContentNormalized(); t != nil && t.HasParseError() {
			return true
		}
	}
	return false
}

func (f *TranslationFile) IsDirty() bool {
	for _, u := range f.units {
		if u.IsDirty() {
			return true
		}
	}
	return false
}
