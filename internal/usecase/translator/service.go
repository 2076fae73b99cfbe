package translator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"tinytrans/internal/domain"
	"tinytrans/internal/logger"
	"tinytrans/internal/ports"
)

var (
	ErrNoProvider      = errors.New("translator: provider missing")
	ErrInvalidLanguage = errors.New("translator: invalid language code")
	ErrMarkerLost      = errors.New("translator: marker missing in translation")
)

const defaultMaxAttempts = 3

type Deps struct {
	Provider ports.Provider
	// Settings of the provider, used for the cache key and the default model.
	Settings domain.Provider
	Cache    ports.CacheRepository // optional
	Prompt   ports.PromptRenderer
	Limiter  *rate.Limiter // optional
	// MaxAttempts bounds retries on malformed model output.
	MaxAttempts int
	// Backoff between attempts, multiplied by the attempt number.
	Backoff time.Duration
}

// Service implements ports.AutoTranslator on top of an LLM provider.
type Service struct{ d Deps }

func New(d Deps) *Service {
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = defaultMaxAttempts
	}
	if d.Backoff == 0 {
		d.Backoff = 200 * time.Millisecond
	}
	return &Service{d: d}
}

var _ ports.AutoTranslator = (*Service)(nil)

// Translate translates display text. Placeholders, ICU references and tags
// are hidden from the model and must all come back.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if s.d.Provider == nil {
		return "", ErrNoProvider
	}
	src, err := canonicalLanguage(sourceLang)
	if err != nil {
		return "", err
	}
	tgt, err := canonicalLanguage(targetLang)
	if err != nil {
		return "", err
	}
	placeholders := extractPlaceholders(text)
	tags := extractTags(text)
	masked, unmask := maskTokens(text, placeholders, tags)
	model := s.d.Settings.Model

	if s.d.Cache != nil {
		ce, err := s.d.Cache.Get(ctx, masked, src, tgt, s.d.Settings.Type, model)
		if err != nil {
			logger.Warn("translation cache lookup failed", "module", "translator", "action", "cache_get", "error", err)
		} else if ce != nil {
			logger.Debug("translation cache hit", "module", "translator", "action", "cache_get", "result", "hit")
			return unmask(ce.Translation), nil
		}
	}

	data := ports.PromptData{SrcLang: src, TgtLang: tgt, Text: masked, Placeholders: tokenNames(placeholders, "__PH_%d__"), Tags: tokenNames(tags, "__TAG_%d__")}
	system, err := s.d.Prompt.Render(ctx, "translate_single", "system", data)
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := s.d.Prompt.Render(ctx, "translate_single", "user", data)
	if err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}
	seg := ports.Segment{Text: masked, Placeholders: data.Placeholders, Tags: data.Tags}
	params := ports.TranslateParams{SourceLang: src, TargetLang: tgt, Model: model, Temperature: 0.0, SystemPrompt: system, UserPrompt: user}

	var res ports.TranslateResult
	for attempt := 1; attempt <= s.d.MaxAttempts; attempt++ {
		if s.d.Limiter != nil {
			if err := s.d.Limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		res, err = s.d.Provider.Translate(ctx, seg, params)
		if err == nil {
			break
		}
		if !isRetryableTranslateError(err) || attempt == s.d.MaxAttempts {
			return "", err
		}
		logger.Warn("retrying translation", "module", "translator", "action", "translate", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * s.d.Backoff):
		}
	}
	raw := strings.TrimSpace(res.Translation)
	translated := unmask(raw)
	for _, group := range [][]string{placeholders, tags} {
		for _, tok := range group {
			if !strings.Contains(translated, tok) {
				return "", fmt.Errorf("%w: %s", ErrMarkerLost, tok)
			}
		}
	}
	if s.d.Cache != nil && raw != "" {
		err := s.d.Cache.Put(ctx, &domain.CacheEntry{
			SourceText:  masked,
			SrcLang:     src,
			TgtLang:     tgt,
			Provider:    s.d.Settings.Type,
			Model:       model,
			Translation: raw,
		})
		if err != nil {
			logger.Warn("translation cache store failed", "module", "translator", "action", "cache_put", "error", err)
		}
	}
	return translated, nil
}

// canonicalLanguage validates a BCP 47 code and returns its canonical form.
func canonicalLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLanguage, code, err)
	}
	return tag.String(), nil
}

var placeholderRE = regexp.MustCompile(`\{\{\d+\}\}|<ICU-Message-Ref_\d+/>`)
var tagRE = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*\s*/?>`)

func extractPlaceholders(s string) []string { return uniqueMatches(placeholderRE, s) }

func extractTags(s string) []string {
	return uniqueMatches(tagRE, placeholderRE.ReplaceAllString(s, ""))
}

// uniqueMatches returns the distinct matches in order of first appearance.
func uniqueMatches(re *regexp.Regexp, s string) []string {
	m := re.FindAllString(s, -1)
	if len(m) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, len(m))
	for _, v := range m {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func tokenNames(tokens []string, format string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i := range tokens {
		out[i] = fmt.Sprintf(format, i)
	}
	return out
}

func maskTokens(s string, placeholders, tags []string) (string, func(string) string) {
	masked := s
	type repl struct{ from, to string }
	repls := make([]repl, 0, len(placeholders)+len(tags))
	for i, ph := range placeholders {
		token := fmt.Sprintf("__PH_%d__", i)
		masked = strings.ReplaceAll(masked, ph, token)
		repls = append(repls, repl{from: token, to: ph})
	}
	for i, tg := range tags {
		token := fmt.Sprintf("__TAG_%d__", i)
		masked = strings.ReplaceAll(masked, tg, token)
		repls = append(repls, repl{from: token, to: tg})
	}
	unmask := func(in string) string {
		out := in
		for i := len(repls) - 1; i >= 0; i-- {
			out = strings.ReplaceAll(out, repls[i].from, repls[i].to)
		}
		return out
	}
	return masked, unmask
}

// isRetryableTranslateError returns true for output/format issues that
// models often get right on a second try.
func isRetryableTranslateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "failed to parse translation json"):
		return true
	case strings.Contains(msg, "no choices returned"):
		return true
	case strings.Contains(msg, "unexpected end of"):
		return true
	case strings.Contains(msg, "invalid character"):
		return true
	default:
		return false
	}
}
