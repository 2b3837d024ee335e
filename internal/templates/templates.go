// Package templates renders localized user-facing messages.
package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed data/*.json
var files embed.FS

// Message keys.
const (
	KeyValidation     = "error_validation"
	KeyRateLimited    = "error_rate_limited"
	KeyProvider       = "error_provider"
	KeyTimeout        = "error_timeout"
	KeyUnknownTool    = "error_unknown_tool"
	KeyUnexpected     = "error_unexpected"
	KeyResourceError  = "resource_error"
	KeySummaryTitle   = "summary_title"
	KeySummaryAvail   = "summary_available"
	KeySummaryPending = "summary_pending"
	KeySummaryTxns    = "summary_transactions"
	KeySummaryNoTxns  = "summary_no_transactions"
)

// Languages lists the bundled languages.
var Languages = []string{"en", "ru"}

// Renderer renders localized messages by key.
type Renderer interface {
	Render(key string, data any) (string, error)
}

// Bundle holds parsed templates for one language.
type Bundle struct {
	lang      string
	templates map[string]*template.Template
}

// Load loads the bundle for lang. Unknown or empty languages fall back to en.
func Load(lang string) (*Bundle, error) {
	lang = normalizeLang(lang)

	raw, err := files.ReadFile(fmt.Sprintf("data/%s.json", lang))
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var messages map[string]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	parsed := make(map[string]*template.Template, len(messages))
	for key, value := range messages {
		tmpl, err := template.New(key).Option("missingkey=zero").Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", key, err)
		}
		parsed[key] = tmpl
	}
	return &Bundle{lang: lang, templates: parsed}, nil
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, known := range Languages {
		if lang == known {
			return lang
		}
	}
	return "en"
}

// Lang returns the bundle language.
func (b *Bundle) Lang() string {
	return b.lang
}

// Render renders a message by key with the supplied data.
func (b *Bundle) Render(key string, data any) (string, error) {
	if b == nil {
		return "", fmt.Errorf("templates bundle is nil")
	}
	tmpl, ok := b.templates[key]
	if !ok {
		return "", fmt.Errorf("template not found: %s", key)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", key, err)
	}
	return out.String(), nil
}

// Text renders key, falling back to fallback when rendering fails.
func Text(r Renderer, key string, data any, fallback string) string {
	if r == nil {
		return fallback
	}
	out, err := r.Render(key, data)
	if err != nil || out == "" {
		return fallback
	}
	return out
}
