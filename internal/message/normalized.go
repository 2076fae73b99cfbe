package message

// NormalizedMessage is the cached, immutable view of a unit's source or
// target text. When parsing failed, Message is nil and ParseError carries
// the reason; the raw text is always kept.
type NormalizedMessage struct {
	original   string
	msg        *Message
	parseError string
	reference  *Message
}

// NewNormalized builds a normalized value. reference is the message
// placeholders and tags are checked against, usually the unit's source.
func NewNormalized(original string, msg *Message, parseError string, reference *Message) *NormalizedMessage {
	return &NormalizedMessage{original: original, msg: msg, parseError: parseError, reference: reference}
}

// Normalize parses native text and captures a failure as data.
func Normalize(native string, reference *Message) *NormalizedMessage {
	msg, err := ParseNative(native)
	if err != nil {
		return NewNormalized(native, nil, err.Error(), reference)
	}
	return NewNormalized(native, msg, "", reference)
}

// Original returns the text the value was built from.
func (n *NormalizedMessage) Original() string { return n.original }

// Message returns the parsed message, nil if parsing failed.
func (n *NormalizedMessage) Message() *Message { return n.msg }

func (n *NormalizedMessage) ParseError() string { return n.parseError }

func (n *NormalizedMessage) HasParseError() bool { return n.parseError != "" }

func (n *NormalizedMessage) Reference() *Message { return n.reference }

// NativeString is the form written back into the translation file. An
// unparsed value falls back to its original text.
func (n *NormalizedMessage) NativeString() string {
	if n.msg == nil {
		return n.original
	}
	return n.msg.NativeString()
}

// DisplayText returns the display syntax when normalize is set and the text
// could be parsed, the original text otherwise.
func (n *NormalizedMessage) DisplayText(normalize bool) string {
	if normalize && n.msg != nil {
		return n.msg.DisplayString()
	}
	return n.original
}

// Translate builds a new value for text in the context of the receiver: the
// receiver's message becomes the reference of the result. With normalize the
// text is read in display syntax, otherwise in native syntax.
func (n *NormalizedMessage) Translate(text string, normalize bool) *NormalizedMessage {
	parse := ParseNative
	if normalize {
		parse = ParseDisplay
	}
	msg, err := parse(text)
	if err != nil {
		return NewNormalized(text, nil, err.Error(), n.msg)
	}
	return NewNormalized(text, msg, "", n.msg)
}
