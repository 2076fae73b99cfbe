package model_test

import (
	"context"
	"errors"

	"tinytrans/internal/domain"
	"tinytrans/internal/message"
)

type translateCall struct {
	text, src, tgt string
}

type translatorStub struct {
	calls   []translateCall
	results map[string]string // keyed by "src>tgt:text"
	result  string
	err     error
}

func (s *translatorStub) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	s.calls = append(s.calls, translateCall{text: text, src: src, tgt: tgt})
	if s.err != nil {
		return "", s.err
	}
	if r, ok := s.results[src+">"+tgt+":"+text]; ok {
		return r, nil
	}
	return s.result, nil
}

type fileStub struct{ src, tgt string }

func (f fileStub) SourceLanguage() string { return f.src }
func (f fileStub) TargetLanguage() string { return f.tgt }

// recordStub is a record without a version stamp whose parts can be broken
// on purpose.
type recordStub struct {
	id        string
	source    string
	target    string
	state     string
	failWrite error
	sourceErr error
	targetErr error
	parses    int
}

func (r *recordStub) ID() string            { return r.id }
func (r *recordStub) SourceContent() string { return r.source }
func (r *recordStub) SourceContentNormalized() (*message.Message, error) {
	r.parses++
	if r.sourceErr != nil {
		return nil, r.sourceErr
	}
	return message.ParseNative(r.source)
}
func (r *recordStub) TargetContent() string { return r.target }
func (r *recordStub) TargetContentNormalized() (*message.Message, error) {
	if r.targetErr != nil {
		return nil, r.targetErr
	}
	return message.ParseNative(r.target)
}
func (r *recordStub) Description() string                        { return "desc" }
func (r *recordStub) Meaning() string                            { return "meaning" }
func (r *recordStub) SourceReferences() []domain.SourceReference { return nil }
func (r *recordStub) TargetState() string                        { return r.state }
func (r *recordStub) SetTargetState(state string)                { r.state = state }
func (r *recordStub) Translate(native string) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.target = native
	return nil
}

var errServiceDown = errors.New("service down")
