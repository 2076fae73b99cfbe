// Package message holds the parsed form of a translatable message and the
// normalized value the editor caches per unit.
//
// A message is a flat list of parts: literal text, numbered interpolation
// placeholders, ICU message references and HTML tags. It can be written in
// two syntaxes. The native syntax is the XLIFF 1.2 inline markup stored in
// the file (<x id="INTERPOLATION"/>, <x id="START_BOLD_TEXT" ctype="x-b"/>).
// The display syntax is what a translator edits ({{0}}, <b>, </b>).
package message

import (
	"sort"
	"strconv"
	"strings"
)

type PartKind int

const (
	PartText PartKind = iota
	PartPlaceholder
	PartICURef
	PartStartTag
	PartCloseTag
	PartEmptyTag
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartPlaceholder:
		return "placeholder"
	case PartICURef:
		return "icu"
	case PartStartTag:
		return "start-tag"
	case PartCloseTag:
		return "close-tag"
	case PartEmptyTag:
		return "empty-tag"
	default:
		return "unknown"
	}
}

// Part is one element of a parsed message.
type Part struct {
	Kind  PartKind
	Text  string // literal text, PartText only
	Index int    // placeholder or ICU reference number
	Tag   string // lower-case tag name for tag parts
}

type Message struct {
	parts []Part
}

// newMessage merges adjacent text parts and drops empty ones.
func newMessage(parts []Part) *Message {
	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		if p.Kind == PartText {
			if p.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == PartText {
				out[n-1].Text += p.Text
				continue
			}
		}
		out = append(out, p)
	}
	return &Message{parts: out}
}

// Parts returns a copy of the message parts.
func (m *Message) Parts() []Part {
	out := make([]Part, len(m.parts))
	copy(out, m.parts)
	return out
}

func (m *Message) IsEmpty() bool { return len(m.parts) == 0 }

// Placeholders returns the distinct interpolation numbers in ascending order.
func (m *Message) Placeholders() []int { return m.indexes(PartPlaceholder) }

// ICURefs returns the distinct ICU reference numbers in ascending order.
func (m *Message) ICURefs() []int { return m.indexes(PartICURef) }

// Tags returns the distinct tag names used by the message, sorted.
func (m *Message) Tags() []string {
	seen := map[string]struct{}{}
	for _, p := range m.parts {
		switch p.Kind {
		case PartStartTag, PartCloseTag, PartEmptyTag:
			seen[p.Tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (m *Message) indexes(kind PartKind) []int {
	seen := map[int]struct{}{}
	for _, p := range m.parts {
		if p.Kind == kind {
			seen[p.Index] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// DisplayString renders the message in display syntax.
func (m *Message) DisplayString() string {
	var b strings.Builder
	for _, p := range m.parts {
		switch p.Kind {
		case PartText:
			b.WriteString(p.Text)
		case PartPlaceholder:
			b.WriteString("{{" + strconv.Itoa(p.Index) + "}}")
		case PartICURef:
			b.WriteString("<ICU-Message-Ref_" + strconv.Itoa(p.Index) + "/>")
		case PartStartTag:
			b.WriteString("<" + p.Tag + ">")
		case PartCloseTag:
			b.WriteString("</" + p.Tag + ">")
		case PartEmptyTag:
			b.WriteString("<" + p.Tag + "/>")
		}
	}
	return b.String()
}

// NativeString renders the message in XLIFF 1.2 inline syntax.
func (m *Message) NativeString() string {
	var b strings.Builder
	for _, p := range m.parts {
		switch p.Kind {
		case PartText:
			b.WriteString(textEscaper.Replace(p.Text))
		case PartPlaceholder:
			b.WriteString(`<x id="` + indexedID(interpolationID, p.Index) + `"/>`)
		case PartICURef:
			b.WriteString(`<x id="` + indexedID(icuID, p.Index) + `"/>`)
		case PartStartTag:
			b.WriteString(`<x id="START_` + placeholderBase(p.Tag) + `" ctype="` + ctype(p.Tag) + `"/>`)
		case PartCloseTag:
			b.WriteString(`<x id="CLOSE_` + placeholderBase(p.Tag) + `" ctype="` + ctype(p.Tag) + `"/>`)
		case PartEmptyTag:
			b.WriteString(`<x id="` + placeholderBase(p.Tag) + `" ctype="` + ctype(p.Tag) + `"/>`)
		}
	}
	return b.String()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func indexedID(base string, i int) string {
	if i == 0 {
		return base
	}
	return base + "_" + strconv.Itoa(i)
}
