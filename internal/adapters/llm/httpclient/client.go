package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"tinytrans/internal/domain"
	"tinytrans/internal/ports"
)

const (
	defaultTimeout       = 20 * time.Second
	defaultOllamaURL     = "http://localhost:11434"
	defaultOpenRouterURL = "https://openrouter.ai"
)

type Client struct {
	ProviderType string
	APIKey       string
	BaseURL      string
	Model        string
	http         *resty.Client
}

func New(p domain.Provider) *Client {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := resty.New().SetTimeout(timeout)
	return &Client{
		ProviderType: strings.ToLower(p.Type),
		APIKey:       p.APIKey,
		BaseURL:      p.BaseURL,
		Model:        p.Model,
		http:         c,
	}
}

var _ ports.Provider = (*Client)(nil)

func (c *Client) Translate(ctx context.Context, seg ports.Segment, p ports.TranslateParams) (ports.TranslateResult, error) {
	switch c.ProviderType {
	case domain.ProviderOpenRouter:
		return c.translateOpenRouter(ctx, p)
	case domain.ProviderOllama:
		return c.translateOllama(ctx, p)
	default:
		return ports.TranslateResult{}, fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	switch c.ProviderType {
	case domain.ProviderOllama:
		return c.listOllamaModels(ctx)
	case domain.ProviderOpenRouter:
		return c.listOpenRouterModels(ctx)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) Test(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func (c *Client) model(p ports.TranslateParams) string {
	if p.Model != "" {
		return p.Model
	}
	return c.Model
}

func (c *Client) base(fallback string) string {
	if c.BaseURL == "" {
		return fallback
	}
	return c.BaseURL
}

func chatMessages(p ports.TranslateParams) []map[string]string {
	return []map[string]string{
		{"role": "system", "content": p.SystemPrompt},
		{"role": "user", "content": p.UserPrompt},
	}
}

func (c *Client) listOllamaModels(ctx context.Context) ([]ports.ModelInfo, error) {
	url := strings.TrimRight(c.base(defaultOllamaURL), "/") + "/api/tags"
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(url)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
	}
	out := make([]ports.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		out = append(out, ports.ModelInfo{Name: m.Name})
	}
	return out, nil
}

func (c *Client) listOpenRouterModels(ctx context.Context) ([]ports.ModelInfo, error) {
	url := openRouterURL(c.base(defaultOpenRouterURL), "/models")
	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	r, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.APIKey).
		SetResult(&resp).
		Get(url)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("openrouter list models: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
	}
	out := make([]ports.ModelInfo, 0, len(resp.Data))
	for _, d := range resp.Data {
		label := d.Name
		if label == "" {
			label = d.ID
		}
		out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
	}
	return out, nil
}

type chatChoices struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) translateOpenRouter(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
	url := openRouterURL(c.base(defaultOpenRouterURL), "/chat/completions")
	body := map[string]any{
		"model":       c.model(p),
		"messages":    chatMessages(p),
		"temperature": p.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "translation",
				"strict": true,
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"translation": map[string]any{"type": "string"},
					},
					"required":             []string{"translation"},
					"additionalProperties": false,
				},
			},
		},
	}
	var resp chatChoices
	post := func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).
			SetAuthToken(c.APIKey).
			SetHeader("X-Title", "tinytrans").
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			SetResult(&resp).
			Post(url)
	}
	r, err := post()
	if err != nil {
		return ports.TranslateResult{}, err
	}
	// Models without structured output reject the schema; json_object is the fallback.
	if r.StatusCode() == 400 {
		body["response_format"] = map[string]string{"type": "json_object"}
		if r, err = post(); err != nil {
			return ports.TranslateResult{}, err
		}
	}
	if r.IsError() {
		return ports.TranslateResult{}, fmt.Errorf("openrouter translate: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return ports.TranslateResult{}, fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	tr, err := extractTranslation(content)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

func (c *Client) translateOllama(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
	url := strings.TrimRight(c.base(defaultOllamaURL), "/") + "/api/chat"
	body := map[string]any{
		"model":    c.model(p),
		"messages": chatMessages(p),
		"stream":   false,
		"format":   "json",
		"options":  map[string]any{"temperature": p.Temperature},
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	r, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(url)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	if r.IsError() {
		return ports.TranslateResult{}, fmt.Errorf("ollama translate: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
	}
	content := strings.TrimSpace(resp.Message.Content)
	tr, err := extractTranslation(content)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

var translationRE = regexp.MustCompile(`(?s)"translation"\s*:\s*"(.*?)"`)

// extractTranslation pulls the translation out of a model answer. Models do
// not always respect JSON mode, so fenced blocks, embedded objects and plain
// text answers are accepted too.
func extractTranslation(content string) (string, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := strings.TrimPrefix(s[idx+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	if tr, ok := decodeTranslation(s); ok {
		return tr, nil
	}
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if tr, ok := decodeTranslation(s[i : j+1]); ok {
				return tr, nil
			}
		}
	}
	if !strings.Contains(s, "{") {
		lower := strings.ToLower(s)
		for _, k := range []string{"translation:", "translated:", "result:", "output:"} {
			if pos := strings.Index(lower, k); pos >= 0 && pos < 80 {
				if cand := strings.TrimSpace(s[pos+len(k):]); cand != "" {
					return cand, nil
				}
			}
		}
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("failed to parse translation JSON; content: %s", abbreviate(s, 2000))
}

func decodeTranslation(s string) (string, bool) {
	var obj struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Translation != "" {
		return obj.Translation, true
	}
	if m := translationRE.FindStringSubmatch(s); len(m) == 2 {
		t := strings.ReplaceAll(m[1], `\n`, "\n")
		return strings.ReplaceAll(t, `\"`, `"`), true
	}
	return "", false
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// openRouterURL builds a URL for OpenRouter whether base contains /api/v1 or not.
func openRouterURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + tail
	}
	return b + "/api/v1" + tail
}
