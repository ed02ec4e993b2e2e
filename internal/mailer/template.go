package mailer

import (
	"html"
	"regexp"
	"strings"

	"github.com/internreg/internal/model"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// RenderTemplate substitutes {{key}} tokens in the template with the
// corresponding values. Unknown tokens are replaced with an empty string.
func RenderTemplate(tmpl string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]
		return values[key]
	})
}

// Compose renders every part of t for one record into an outgoing message.
// Recipients come from the rendered EmailTo, split on commas. Values are
// HTML-escaped in the body of HTML templates.
func Compose(t *model.MailTemplate, values map[string]string) Message {
	bodyValues := values
	if t.IsHTML {
		bodyValues = make(map[string]string, len(values))
		for k, v := range values {
			bodyValues[k] = html.EscapeString(v)
		}
	}

	var to []string
	for _, addr := range strings.Split(RenderTemplate(t.EmailTo, values), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	return Message{
		To:      to,
		Subject: RenderTemplate(t.Subject, values),
		Body:    RenderTemplate(t.Body, bodyValues),
		IsHTML:  t.IsHTML,
	}
}
