package message

import (
	"fmt"
	"slices"
)

const (
	IssuePlaceholderAdded   = "placeholderAdded"
	IssuePlaceholderRemoved = "placeholderRemoved"
	IssueICURefAdded        = "icuRefAdded"
	IssueICURefRemoved      = "icuRefRemoved"
	IssueTagAdded           = "tagAdded"
	IssueTagRemoved         = "tagRemoved"
)

type Issue struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (i Issue) String() string { return i.Code + ": " + i.Detail }

// Validate reports markers the message uses that its reference does not
// have. Those cannot be rendered by the application and are errors.
func (n *NormalizedMessage) Validate() []Issue {
	if n.msg == nil || n.reference == nil {
		return nil
	}
	var out []Issue
	for _, i := range missing(n.msg.Placeholders(), n.reference.Placeholders()) {
		out = append(out, Issue{Code: IssuePlaceholderAdded, Detail: fmt.Sprintf("placeholder {{%d}} is not in the source", i)})
	}
	for _, i := range missing(n.msg.ICURefs(), n.reference.ICURefs()) {
		out = append(out, Issue{Code: IssueICURefAdded, Detail: fmt.Sprintf("ICU reference %d is not in the source", i)})
	}
	return out
}

// AddedMarkers is Validate extended to tags: everything the message adds
// over its reference. Machine output must not add anything.
func (n *NormalizedMessage) AddedMarkers() []Issue {
	out := n.Validate()
	if n.msg == nil || n.reference == nil {
		return out
	}
	for _, t := range missing(n.msg.Tags(), n.reference.Tags()) {
		out = append(out, Issue{Code: IssueTagAdded, Detail: fmt.Sprintf("tag <%s> is not in the source", t)})
	}
	return out
}

// ValidateWarnings reports markers dropped from the reference and tags the
// reference does not use.
func (n *NormalizedMessage) ValidateWarnings() []Issue {
	if n.msg == nil || n.reference == nil {
		return nil
	}
	var out []Issue
	for _, i := range missing(n.reference.Placeholders(), n.msg.Placeholders()) {
		out = append(out, Issue{Code: IssuePlaceholderRemoved, Detail: fmt.Sprintf("placeholder {{%d}} is missing", i)})
	}
	for _, i := range missing(n.reference.ICURefs(), n.msg.ICURefs()) {
		out = append(out, Issue{Code: IssueICURefRemoved, Detail: fmt.Sprintf("ICU reference %d is missing", i)})
	}
	for _, t := range missing(n.msg.Tags(), n.reference.Tags()) {
		out = append(out, Issue{Code: IssueTagAdded, Detail: fmt.Sprintf("tag <%s> is not in the source", t)})
	}
	for _, t := range missing(n.reference.Tags(), n.msg.Tags()) {
		out = append(out, Issue{Code: IssueTagRemoved, Detail: fmt.Sprintf("tag <%s> is missing", t)})
	}
	return out
}

// missing returns the elements of have that are not in want.
func missing[T comparable](have, want []T) []T {
	var out []T
	for _, v := range have {
		if !slices.Contains(want, v) {
			out = append(out, v)
		}
	}
	return out
}
