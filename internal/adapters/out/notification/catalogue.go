// Package notification renders customer emails from an embedded template
// catalogue and hands them to a transport: SMTP, a Kafka email queue, or the
// log when no transport is configured.
package notification

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Email is a rendered message.
type Email struct {
	Subject string
	Body    string
}

type templateSource struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type compiled struct {
	subject *template.Template
	body    *template.Template
}

// Catalogue holds the parsed templates by name.
type Catalogue struct {
	templates map[string]compiled
}

// LoadCatalogue parses the embedded templates.
func LoadCatalogue() (*Catalogue, error) {
	return ParseCatalogue(defaultTemplates)
}

// ParseCatalogue parses a YAML document mapping template names to subject and
// body sources.
func ParseCatalogue(doc []byte) (*Catalogue, error) {
	var sources map[string]templateSource
	if err := yaml.Unmarshal(doc, &sources); err != nil {
		return nil, fmt.Errorf("parse template catalogue: %w", err)
	}

	c := &Catalogue{templates: make(map[string]compiled, len(sources))}
	for name, src := range sources {
		subject, err := template.New(name + ".subject").Option("missingkey=error").Parse(src.Subject)
		if err != nil {
			return nil, fmt.Errorf("template %s subject: %w", name, err)
		}
		body, err := template.New(name + ".body").Option("missingkey=error").Parse(src.Body)
		if err != nil {
			return nil, fmt.Errorf("template %s body: %w", name, err)
		}
		c.templates[name] = compiled{subject: subject, body: body}
	}
	return c, nil
}

// Names lists the templates in alphabetical order.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render fills the named template. Unknown names are an ObjectNotFoundError.
func (c *Catalogue) Render(name string, vars notification.Variables) (Email, error) {
	t, ok := c.templates[name]
	if !ok {
		return Email{}, errs.NewObjectNotFoundError("template", name)
	}

	var subject, body strings.Builder
	if err := t.subject.Execute(&subject, vars); err != nil {
		return Email{}, err
	}
	if err := t.body.Execute(&body, vars); err != nil {
		return Email{}, err
	}

	return Email{
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
