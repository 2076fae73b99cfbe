package message

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseNative_PlaceholdersAndTags(t *testing.T) {
	native := `Hello <x id="START_BOLD_TEXT" ctype="x-b"/><x id="INTERPOLATION"/><x id="CLOSE_BOLD_TEXT" ctype="x-b"/>, you have <x id="INTERPOLATION_1"/> mails<x id="LINE_BREAK" ctype="lb"/>`
	m, err := ParseNative(native)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, m.Placeholders())
	require.Equal(t, []string{"b", "br"}, m.Tags())
	require.Equal(t, "Hello <b>{{0}}</b>, you have {{1}} mails<br/>", m.DisplayString())
	require.Equal(t, native, m.NativeString())
}

func TestParseNative_EntitiesAndICU(t *testing.T) {
	m, err := ParseNative(`Fish &amp; chips &lt;3 <x id="ICU"/> <x id="ICU_2"/>`)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, m.ICURefs())
	require.Equal(t, "Fish & chips <3 <ICU-Message-Ref_0/> <ICU-Message-Ref_2/>", m.DisplayString())
	require.Equal(t, `Fish &amp; chips &lt;3 <x id="ICU"/> <x id="ICU_2"/>`, m.NativeString())
}

func TestParseNative_SuffixedAndGenericTags(t *testing.T) {
	m, err := ParseNative(`<x id="START_LINK_1" ctype="x-a"/>go<x id="CLOSE_LINK_1" ctype="x-a"/><x id="START_TAG_SPAN" ctype="x-span"/>x<x id="CLOSE_TAG_SPAN" ctype="x-span"/>`)
	require.NoError(t, err)
	require.Equal(t, "<a>go</a><span>x</span>", m.DisplayString())
}

func TestParseNative_Errors(t *testing.T) {
	cases := map[string]string{
		"unterminated":   `Hello <x id="INTERPOLATION"`,
		"unknown id":     `Hello <x id="WHATEVER"/>`,
		"missing id":     `Hello <x/>`,
		"other element":  `Hello <g id="1">x</g>`,
		"unbalanced":     `<x id="CLOSE_BOLD_TEXT" ctype="x-b"/>`,
		"unclosed":       `<x id="START_BOLD_TEXT" ctype="x-b"/>bold`,
		"content inside": `<x id="INTERPOLATION">1</x>`,
		"bad entity":     `a &nbsp; b`,
		"comment":        `Hello <!-- keep --> world`,
		"proc inst":      `Hello <?pi x?> world`,
		"nested x":       `<x id="INTERPOLATION"><x id="ICU"/></x>`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNative(in)
			require.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseDisplay(t *testing.T) {
	m, err := ParseDisplay("Bonjour <b>{{0}}</b>, vous avez {{1}} mails<br>")
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, m.Placeholders())
	require.Equal(t,
		`Bonjour <x id="START_BOLD_TEXT" ctype="x-b"/><x id="INTERPOLATION"/><x id="CLOSE_BOLD_TEXT" ctype="x-b"/>, vous avez <x id="INTERPOLATION_1"/> mails<x id="LINE_BREAK" ctype="lb"/>`,
		m.NativeString())
}

func TestParseDisplay_LiteralMarkupStaysText(t *testing.T) {
	m, err := ParseDisplay("1 < 2 and {{x}} & {x}")
	require.NoError(t, err)
	require.Empty(t, m.Placeholders())
	require.Equal(t, "1 &lt; 2 and {{x}} &amp; {x}", m.NativeString())
	require.Len(t, m.Parts(), 1)
}

func TestParseDisplay_Errors(t *testing.T) {
	for _, in := range []string{"<b>open", "close</b>", "<b><i>x</b></i>", "line</br>", "</b/>"} {
		_, err := ParseDisplay(in)
		require.ErrorIs(t, err, ErrSyntax, in)
	}
}

func TestParseDisplay_ICURef(t *testing.T) {
	m, err := ParseDisplay("{{0}} <ICU-Message-Ref_1/>")
	require.NoError(t, err)
	require.Equal(t, []int{1}, m.ICURefs())
	require.Equal(t, `<x id="INTERPOLATION"/> <x id="ICU_1"/>`, m.NativeString())
}

func TestMessage_EmptyText(t *testing.T) {
	m, err := ParseNative("")
	require.NoError(t, err)
	require.True(t, m.IsEmpty())
	require.Equal(t, "", m.DisplayString())
}

func TestParse_SyntaxesAgreeOnParts(t *testing.T) {
	want := []Part{
		{Kind: PartText, Text: "Hi "},
		{Kind: PartStartTag, Tag: "b"},
		{Kind: PartPlaceholder, Index: 0},
		{Kind: PartCloseTag, Tag: "b"},
		{Kind: PartEmptyTag, Tag: "br"},
		{Kind: PartICURef, Index: 1},
	}
	native, err := ParseNative(`Hi <x id="START_BOLD_TEXT" ctype="x-b"/><x id="INTERPOLATION"/><x id="CLOSE_BOLD_TEXT" ctype="x-b"/><x id="LINE_BREAK" ctype="lb"/><x id="ICU_1"/>`)
	require.NoError(t, err)
	if diff := cmp.Diff(want, native.Parts()); diff != "" {
		t.Errorf("native parts mismatch (-want +got):\n%s", diff)
	}
	display, err := ParseDisplay("Hi <b>{{0}}</b><br/><ICU-Message-Ref_1/>")
	require.NoError(t, err)
	if diff := cmp.Diff(want, display.Parts()); diff != "" {
		t.Errorf("display parts mismatch (-want +got):\n%s", diff)
	}
}
