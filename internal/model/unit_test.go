package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tinytrans/internal/adapters/record/memory"
	"tinytrans/internal/domain"
	"tinytrans/internal/model"
)

func TestTranslationUnit_Unbound(t *testing.T) {
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, nil)

	rec, ok := u.Record()
	require.False(t, ok)
	require.Nil(t, rec)
	require.Empty(t, u.ID())
	require.Empty(t, u.SourceContent())
	require.Empty(t, u.TargetContent())
	require.Empty(t, u.Description())
	require.Empty(t, u.Meaning())
	require.Nil(t, u.SourceReferences())
	require.Empty(t, u.TargetState())
	require.Nil(t, u.SourceContentNormalized())
	require.Nil(t, u.TargetContentNormalized())
	require.False(t, u.IsTranslated())
	require.False(t, u.IsDirty())

	u.SetTargetState(domain.StateFinal)
	require.NoError(t, u.Translate(nil))
	svc := &translatorStub{result: "x"}
	require.NoError(t, u.AutoTranslateUsingService(context.Background(), svc))
	require.Empty(t, svc.calls)
	require.False(t, u.IsDirty())
}

func TestTranslationUnit_TypedNilRecordIsUnbound(t *testing.T) {
	var rec *memory.Unit
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	_, ok := u.Record()
	require.False(t, ok)
	require.Empty(t, u.ID())
	require.Empty(t, u.SourceContent())
	require.Nil(t, u.SourceContentNormalized())
	require.Nil(t, u.TargetContentNormalized())
	require.False(t, u.IsTranslated())
	u.SetTargetState(domain.StateFinal)
	require.NoError(t, u.AutoTranslateUsingService(context.Background(), &translatorStub{result: "x"}))
	require.False(t, u.IsDirty())
}

func TestTranslationUnit_Accessors(t *testing.T) {
	refs := []domain.SourceReference{{SourceFile: "src/app/app.component.html", LineNumber: 12}}
	rec := memory.NewUnit(memory.UnitSpec{ID: "title", Source: "Title", Target: "Titre", Description: "page title", Meaning: "header", References: refs})
	file := fileStub{"en", "fr"}
	u := model.NewTranslationUnit(file, rec)

	require.Equal(t, file, u.TranslationFile())
	require.Equal(t, "title", u.ID())
	require.Equal(t, "Title", u.SourceContent())
	require.Equal(t, "Titre", u.TargetContent())
	require.Equal(t, "page title", u.Description())
	require.Equal(t, "header", u.Meaning())
	require.Equal(t, refs, u.SourceReferences())
	require.Equal(t, domain.StateTranslated, u.TargetState())
}

func TestTranslationUnit_NormalizedIsCached(t *testing.T) {
	rec := &recordStub{id: "a", source: `Hello <x id="INTERPOLATION"/>`, state: domain.StateNew}
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	first := u.SourceContentNormalized()
	require.Same(t, first, u.SourceContentNormalized())
	require.Equal(t, "Hello {{0}}", first.DisplayText(true))

	target := u.TargetContentNormalized()
	require.Same(t, target, u.TargetContentNormalized())
	require.Same(t, first.Message(), target.Reference())
	require.Equal(t, 1, rec.parses)
}

func TestTranslationUnit_TranslateInvalidatesCaches(t *testing.T) {
	rec := &recordStub{id: "a", source: `Hello <x id="INTERPOLATION"/>`, state: domain.StateNew}
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	source := u.SourceContentNormalized()
	target := u.TargetContentNormalized()
	require.False(t, u.IsDirty())

	require.NoError(t, u.Translate(source.Translate("Bonjour {{0}}", true)))
	require.True(t, u.IsDirty())
	require.Equal(t, `Bonjour <x id="INTERPOLATION"/>`, rec.target)

	newSource := u.SourceContentNormalized()
	newTarget := u.TargetContentNormalized()
	require.NotSame(t, source, newSource)
	require.NotSame(t, target, newTarget)
	require.Equal(t, "Bonjour {{0}}", newTarget.DisplayText(true))
	require.Equal(t, 2, rec.parses)
}

func TestTranslationUnit_TranslateFailureChangesNothing(t *testing.T) {
	writeErr := errors.New("read only")
	rec := &recordStub{id: "a", source: "Hello", state: domain.StateNew, failWrite: writeErr}
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)
	source := u.SourceContentNormalized()

	err := u.Translate(source.Translate("Bonjour", true))
	require.ErrorIs(t, err, writeErr)
	require.False(t, u.IsDirty())
	require.Same(t, source, u.SourceContentNormalized())

	require.ErrorIs(t, u.Translate(nil), model.ErrNilMessage)
}

func TestTranslationUnit_RecordVersionInvalidatesCaches(t *testing.T) {
	rec := memory.NewUnit(memory.UnitSpec{ID: "a", Source: "Hello", Target: "Salut"})
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	before := u.TargetContentNormalized()
	rec.SetTarget("Bonjour")
	after := u.TargetContentNormalized()
	require.NotSame(t, before, after)
	require.Equal(t, "Bonjour", after.Original())
	require.False(t, u.IsDirty())
}

func TestTranslationUnit_IsTranslated(t *testing.T) {
	cases := map[string]bool{
		"":                     false,
		domain.StateNew:        false,
		domain.StateTranslated: true,
		domain.StateFinal:      true,
		"needs-review":         true,
	}
	for state, want := range cases {
		u := model.NewTranslationUnit(fileStub{"en", "fr"}, &recordStub{id: "a", state: state})
		require.Equal(t, want, u.IsTranslated(), "state %q", state)
	}
}

func TestTranslationUnit_TargetParseErrorIsData(t *testing.T) {
	raw := `Bonjour <x id="INTERPOLATION"`
	rec := &recordStub{id: "a", source: `Hello <x id="INTERPOLATION"/>`, target: raw, state: domain.StateTranslated}
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	n := u.TargetContentNormalized()
	require.NotNil(t, n)
	require.Equal(t, raw, n.Original())
	require.True(t, n.HasParseError())
	require.NotEmpty(t, n.ParseError())
	require.Nil(t, n.Message())
	require.NotNil(t, n.Reference())
}

func TestTranslationUnit_SourceParseErrorFromRecord(t *testing.T) {
	rec := &recordStub{id: "a", source: "Hello", state: domain.StateNew, sourceErr: errors.New("bad ICU")}
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)

	n := u.SourceContentNormalized()
	require.Equal(t, "bad ICU", n.ParseError())
	require.Equal(t, "Hello", n.Original())
	require.Nil(t, u.TargetContentNormalized().Reference())
}

func TestTranslationUnit_SetTargetStateMarksDirty(t *testing.T) {
	rec := memory.NewUnit(memory.UnitSpec{ID: "a", Source: "Hello", Target: "Salut"})
	u := model.NewTranslationUnit(fileStub{"en", "fr"}, rec)
	target := u.TargetContentNormalized()

	u.SetTargetState(domain.StateTranslated)
	require.False(t, u.IsDirty())

	u.SetTargetState(domain.StateFinal)
	require.True(t, u.IsDirty())
	require.Equal(t, domain.StateFinal, u.TargetState())
	require.Same(t, target, u.TargetContentNormalized())
}
