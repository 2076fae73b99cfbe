package message

import (
	"regexp"
	"strings"
)

const (
	interpolationID = "INTERPOLATION"
	icuID           = "ICU"
)

// tagPlaceholderNames maps HTML tags to the placeholder names Angular writes
// into XLIFF files for them.
var tagPlaceholderNames = map[string]string{
	"A":     "LINK",
	"B":     "BOLD_TEXT",
	"BR":    "LINE_BREAK",
	"EM":    "EMPHASISED_TEXT",
	"H1":    "HEADING_LEVEL1",
	"H2":    "HEADING_LEVEL2",
	"H3":    "HEADING_LEVEL3",
	"H4":    "HEADING_LEVEL4",
	"H5":    "HEADING_LEVEL5",
	"H6":    "HEADING_LEVEL6",
	"HR":    "HORIZONTAL_RULE",
	"I":     "ITALIC_TEXT",
	"LI":    "LIST_ITEM",
	"LINK":  "MEDIA_LINK",
	"OL":    "ORDERED_LIST",
	"P":     "PARAGRAPH",
	"Q":     "QUOTATION",
	"S":     "STRIKETHROUGH_TEXT",
	"SMALL": "SMALL_TEXT",
	"SUB":   "SUBSTRIPT",
	"SUP":   "SUPERSCRIPT",
	"TBODY": "TABLE_BODY",
	"TD":    "TABLE_CELL",
	"TFOOT": "TABLE_FOOTER",
	"TH":    "TABLE_HEADER_CELL",
	"THEAD": "TABLE_HEADER",
	"TR":    "TABLE_ROW",
	"TT":    "MONOSPACED_TEXT",
	"U":     "UNDERLINED_TEXT",
	"UL":    "UNORDERED_LIST",
}

var placeholderTags = func() map[string]string {
	m := make(map[string]string, len(tagPlaceholderNames))
	for tag, name := range tagPlaceholderNames {
		m[name] = strings.ToLower(tag)
	}
	return m
}()

var voidTags = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "wbr": true,
}

func isVoid(tag string) bool { return voidTags[tag] }

func placeholderBase(tag string) string {
	upper := strings.ToUpper(tag)
	if name, ok := tagPlaceholderNames[upper]; ok {
		return name
	}
	return "TAG_" + upper
}

func ctype(tag string) string {
	switch tag {
	case "br":
		return "lb"
	case "img":
		return "image"
	default:
		return "x-" + tag
	}
}

var uniqueSuffixRE = regexp.MustCompile(`_\d+$`)

// tagForBase resolves a placeholder base name back to its tag. Angular adds
// a numeric suffix when the same tag appears with different attributes.
func tagForBase(base string) (string, bool) {
	if tag, ok := lookupBase(base); ok {
		return tag, true
	}
	if trimmed := uniqueSuffixRE.ReplaceAllString(base, ""); trimmed != base {
		return lookupBase(trimmed)
	}
	return "", false
}

func lookupBase(base string) (string, bool) {
	if tag, ok := placeholderTags[base]; ok {
		return tag, true
	}
	if rest, ok := strings.CutPrefix(base, "TAG_"); ok && rest != "" {
		return strings.ToLower(rest), true
	}
	return "", false
}
