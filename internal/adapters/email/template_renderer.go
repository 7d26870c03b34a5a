package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"ticketinventory/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Names of the templates every renderer must carry.
const (
	TemplateTicketConfirmation = "ticket_confirmation"
	TemplateTicketCancellation = "ticket_cancellation"
)

var requiredTemplates = []string{TemplateTicketConfirmation, TemplateTicketCancellation}

type ticketTemplate struct {
	subject *texttemplate.Template
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// templateRenderer implements domain.EmailTemplateRenderer over templates parsed once at startup.
type templateRenderer struct {
	templates map[string]ticketTemplate
}

// NewTemplateRenderer parses the embedded ticket templates. A missing or malformed
// template fails here rather than on the first send.
func NewTemplateRenderer() (domain.EmailTemplateRenderer, error) {
	r := &templateRenderer{templates: make(map[string]ticketTemplate, len(requiredTemplates))}
	for _, name := range requiredTemplates {
		t, err := parseTicketTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("email template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func parseTicketTemplate(name string) (ticketTemplate, error) {
	subject, err := texttemplate.ParseFS(templateFS, "templates/"+name+"_subject.txt")
	if err != nil {
		return ticketTemplate{}, err
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/"+name+".html")
	if err != nil {
		return ticketTemplate{}, err
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/"+name+".txt")
	if err != nil {
		return ticketTemplate{}, err
	}
	return ticketTemplate{subject: subject, html: html, text: text}, nil
}

// Render executes the named template with data and returns subject, html and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	t, ok := r.templates[templateName]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", templateName)
	}
	var sb, hb, tb bytes.Buffer
	if err := t.subject.Execute(&sb, data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := t.html.Execute(&hb, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	if err := t.text.Execute(&tb, data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(sb.String()), hb.String(), tb.String(), nil
}
