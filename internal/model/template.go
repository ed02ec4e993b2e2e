package model

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Template names resolved by the registration workflow.
const (
	TemplateRegistrationConfirmation = "registration_confirmation"
	TemplateHRReminder               = "hr_reminder"
)

// MailTemplate is a named, admin-editable message template. Subject, Body
// and EmailTo may contain {{key}} tokens.
type MailTemplate struct {
	Name      string    `json:"name" yaml:"name"`
	EmailTo   string    `json:"emailTo" yaml:"email_to"`
	Subject   string    `json:"subject" yaml:"subject"`
	Body      string    `json:"body" yaml:"body"`
	IsHTML    bool      `json:"isHtml" yaml:"is_html"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
	UpdatedBy string    `json:"updatedBy,omitempty" yaml:"-"`
}

//go:embed default_templates.yaml
var defaultTemplatesYAML []byte

type templateCatalog struct {
	Version   int            `yaml:"version"`
	Templates []MailTemplate `yaml:"templates"`
}

// DefaultTemplates returns the templates seeded into an empty template store.
func DefaultTemplates() ([]MailTemplate, error) {
	var catalog templateCatalog
	if err := yaml.Unmarshal(defaultTemplatesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}
	for i, t := range catalog.Templates {
		if t.Name == "" {
			return nil, fmt.Errorf("default template %d: missing name", i)
		}
	}
	return catalog.Templates, nil
}
