package message

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("message syntax error")

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

// ParseNative parses XLIFF 1.2 inline content.
func ParseNative(s string) (*Message, error) {
	dec := xml.NewDecoder(strings.NewReader("<m>" + s + "</m>"))
	var parts []Part
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError("%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				continue
			}
			if depth > 2 {
				return nil, syntaxError("<x> must be empty")
			}
			if t.Name.Local != "x" {
				return nil, syntaxError("unsupported element <%s>", t.Name.Local)
			}
			p, err := nativePlaceholder(t)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth > 1 {
				return nil, syntaxError("<x> must be empty")
			}
			parts = append(parts, Part{Kind: PartText, Text: string(t)})
		case xml.Comment:
			return nil, syntaxError("comments are not allowed")
		case xml.ProcInst:
			return nil, syntaxError("processing instruction <?%s?> is not allowed", t.Target)
		case xml.Directive:
			return nil, syntaxError("directives are not allowed")
		}
	}
	if err := checkNesting(parts); err != nil {
		return nil, err
	}
	return newMessage(parts), nil
}

func nativePlaceholder(el xml.StartElement) (Part, error) {
	var id string
	for _, a := range el.Attr {
		if a.Name.Local == "id" {
			id = a.Value
		}
	}
	if id == "" {
		return Part{}, syntaxError("<x> without id")
	}
	if i, ok := parseIndexedID(id, interpolationID); ok {
		return Part{Kind: PartPlaceholder, Index: i}, nil
	}
	if i, ok := parseIndexedID(id, icuID); ok {
		return Part{Kind: PartICURef, Index: i}, nil
	}
	kind := PartEmptyTag
	base := id
	if rest, ok := strings.CutPrefix(id, "START_"); ok {
		kind, base = PartStartTag, rest
	} else if rest, ok := strings.CutPrefix(id, "CLOSE_"); ok {
		kind, base = PartCloseTag, rest
	}
	tag, ok := tagForBase(base)
	if !ok {
		return Part{}, syntaxError("unknown placeholder id %q", id)
	}
	return Part{Kind: kind, Tag: tag}, nil
}

func parseIndexedID(id, base string) (int, bool) {
	if id == base {
		return 0, true
	}
	rest, ok := strings.CutPrefix(id, base+"_")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

var displayTokenRE = regexp.MustCompile(`\{\{(\d+)\}\}|<ICU-Message-Ref_(\d+)/>|<(/?)([a-zA-Z][a-zA-Z0-9]*)\s*(/?)>`)

// ParseDisplay parses text in display syntax. Anything that is not a
// placeholder, an ICU reference or a tag is literal text.
func ParseDisplay(s string) (*Message, error) {
	var parts []Part
	last := 0
	for _, m := range displayTokenRE.FindAllStringSubmatchIndex(s, -1) {
		parts = append(parts, Part{Kind: PartText, Text: s[last:m[0]]})
		last = m[1]
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return s[m[2*n]:m[2*n+1]]
		}
		switch {
		case m[2] >= 0:
			i, err := strconv.Atoi(group(1))
			if err != nil {
				return nil, syntaxError("placeholder %s: %v", s[m[0]:m[1]], err)
			}
			parts = append(parts, Part{Kind: PartPlaceholder, Index: i})
		case m[4] >= 0:
			i, err := strconv.Atoi(group(2))
			if err != nil {
				return nil, syntaxError("icu reference %s: %v", s[m[0]:m[1]], err)
			}
			parts = append(parts, Part{Kind: PartICURef, Index: i})
		default:
			tag := strings.ToLower(group(4))
			closing, selfClosing := group(3) == "/", group(5) == "/"
			switch {
			case closing && selfClosing:
				return nil, syntaxError("malformed tag %s", s[m[0]:m[1]])
			case closing:
				if isVoid(tag) {
					return nil, syntaxError("void tag <%s> cannot be closed", tag)
				}
				parts = append(parts, Part{Kind: PartCloseTag, Tag: tag})
			case selfClosing || isVoid(tag):
				parts = append(parts, Part{Kind: PartEmptyTag, Tag: tag})
			default:
				parts = append(parts, Part{Kind: PartStartTag, Tag: tag})
			}
		}
	}
	parts = append(parts, Part{Kind: PartText, Text: s[last:]})
	if err := checkNesting(parts); err != nil {
		return nil, err
	}
	return newMessage(parts), nil
}

// checkNesting verifies that start and close tags pair up.
func checkNesting(parts []Part) error {
	var open []string
	for _, p := range parts {
		switch p.Kind {
		case PartStartTag:
			open = append(open, p.Tag)
		case PartCloseTag:
			if len(open) == 0 {
				return syntaxError("unexpected close tag </%s>", p.Tag)
			}
			if top := open[len(open)-1]; top != p.Tag {
				return syntaxError("close tag </%s> does not match <%s>", p.Tag, top)
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return syntaxError("unclosed tag <%s>", open[len(open)-1])
	}
	return nil
}
