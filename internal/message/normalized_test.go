package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_CapturesParseError(t *testing.T) {
	n := Normalize(`broken <x id="INTERPOLATION"`, nil)
	require.True(t, n.HasParseError())
	require.Nil(t, n.Message())
	require.Equal(t, `broken <x id="INTERPOLATION"`, n.Original())
	require.Equal(t, n.Original(), n.NativeString())
	require.Equal(t, n.Original(), n.DisplayText(true))
	require.Nil(t, n.Validate())
}

func TestNormalizedMessage_DisplayText(t *testing.T) {
	n := Normalize(`Hi <x id="INTERPOLATION"/>`, nil)
	require.False(t, n.HasParseError())
	require.Equal(t, "Hi {{0}}", n.DisplayText(true))
	require.Equal(t, `Hi <x id="INTERPOLATION"/>`, n.DisplayText(false))
}

func TestNormalizedMessage_TranslateUsesReceiverAsReference(t *testing.T) {
	src := Normalize(`Hello <x id="INTERPOLATION"/>`, nil)
	tr := src.Translate("Bonjour {{0}}", true)
	require.False(t, tr.HasParseError())
	require.Same(t, src.Message(), tr.Reference())
	require.Equal(t, `Bonjour <x id="INTERPOLATION"/>`, tr.NativeString())
	require.Empty(t, tr.Validate())
	require.Empty(t, tr.ValidateWarnings())

	native := src.Translate(`Salut <x id="INTERPOLATION"/>`, false)
	require.False(t, native.HasParseError())
	require.Equal(t, "Salut {{0}}", native.DisplayText(true))
}

func TestNormalizedMessage_TranslateParseError(t *testing.T) {
	src := Normalize("Hello", nil)
	tr := src.Translate("<b>Bonjour", true)
	require.True(t, tr.HasParseError())
	require.Contains(t, tr.ParseError(), "unclosed tag")
	require.Equal(t, "<b>Bonjour", tr.NativeString())
}

func TestNormalizedMessage_Validate(t *testing.T) {
	src := Normalize(`<x id="START_BOLD_TEXT" ctype="x-b"/><x id="INTERPOLATION"/><x id="CLOSE_BOLD_TEXT" ctype="x-b"/> and <x id="INTERPOLATION_1"/>`, nil)
	tr := src.Translate("{{0}} et {{2}} <i>x</i>", true)
	require.False(t, tr.HasParseError())

	errs := tr.Validate()
	require.Len(t, errs, 1)
	require.Equal(t, IssuePlaceholderAdded, errs[0].Code)

	codes := []string{}
	for _, w := range tr.ValidateWarnings() {
		codes = append(codes, w.Code)
	}
	require.ElementsMatch(t, []string{IssuePlaceholderRemoved, IssueTagAdded, IssueTagRemoved}, codes)
}

func TestNormalizedMessage_AddedMarkers(t *testing.T) {
	src := Normalize(`Press &lt;br/&gt; <x id="START_BOLD_TEXT" ctype="x-b"/>now<x id="CLOSE_BOLD_TEXT" ctype="x-b"/>`, nil)
	require.False(t, src.HasParseError())
	require.Equal(t, "Press <br/> <b>now</b>", src.DisplayText(true))

	added := src.Translate("Appuyez <br/> <b>{{0}}</b>", true).AddedMarkers()
	codes := []string{}
	for _, i := range added {
		codes = append(codes, i.Code)
	}
	require.ElementsMatch(t, []string{IssuePlaceholderAdded, IssueTagAdded}, codes)

	// dropping markers is only a warning
	require.Empty(t, src.Translate("Appuyez maintenant", true).AddedMarkers())
	require.Empty(t, src.Translate("Appuyez <b>maintenant</b>", true).AddedMarkers())
}
