// Package template renders reminder email bodies: a built-in default HTML
// layout per reminder type, plus {{token}} substitution for operator-supplied
// templates.
package template

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
)

// ReminderData is the context available to both the default templates and
// operator template tokens.
type ReminderData struct {
	FirstName      string
	RecipientName  string
	Occasion       string
	DaysBefore     int
	ShopName       string
	ShopURL        string
	LogoURL        string
	UnsubscribeURL string
	StoreAddress   string
	StorePhone     string
	StoreEmail     string
}

// WhenPhrase distinguishes "is tomorrow" from "is in N days" in the default
// templates.
func (d ReminderData) WhenPhrase() string {
	switch d.DaysBefore {
	case 0:
		return "is today"
	case 1:
		return "is tomorrow"
	default:
		return fmt.Sprintf("is in %d days", d.DaysBefore)
	}
}

// Tokens exposes the substitution map for operator templates.
func (d ReminderData) Tokens() map[string]any {
	return map[string]any{
		"firstName":      d.FirstName,
		"recipientName":  d.RecipientName,
		"occasion":       d.Occasion,
		"daysBefore":     d.DaysBefore,
		"shopName":       d.ShopName,
		"shopUrl":        d.ShopURL,
		"unsubscribeUrl": d.UnsubscribeURL,
	}
}

const layoutHTML = `{{define "layout"}}<html>
  <body style="font-family: Arial, sans-serif; padding: 24px; max-width: 560px; margin: 0 auto;">
    {{if .Data.LogoURL}}<img src="{{.Data.LogoURL}}" alt="{{.Data.ShopName}}" style="max-height: 56px; margin-bottom: 16px;" />{{end}}
    {{template "body" .Data}}
    <p style="line-height: 1.6;">
      <a href="{{.Data.ShopURL}}" style="color: #db2777;">Order something special from {{.Data.ShopName}}</a>
    </p>
    {{if or .Data.StoreAddress (or .Data.StorePhone .Data.StoreEmail)}}
    <p style="color: #6b7280; font-size: 13px; line-height: 1.6;">
      {{if .Data.StoreAddress}}{{.Data.StoreAddress}}<br/>{{end}}
      {{if .Data.StorePhone}}{{.Data.StorePhone}}<br/>{{end}}
      {{if .Data.StoreEmail}}{{.Data.StoreEmail}}{{end}}
    </p>
    {{end}}
    <p style="color: #9ca3af; font-size: 12px;">
      <a href="{{.Data.UnsubscribeURL}}" style="color: #9ca3af;">Unsubscribe from these reminders</a>
    </p>
  </body>
</html>{{end}}`

const birthdayHTML = `{{define "body"}}<h1 style="margin-bottom: 12px;">Hi {{.FirstName}},</h1>
    <p style="line-height: 1.6; color: #4b5563;">
      Just a friendly note that your birthday {{.WhenPhrase}}. Treat yourself, or let
      someone know what would make your day.
    </p>{{end}}`

const anniversaryHTML = `{{define "body"}}<h1 style="margin-bottom: 12px;">Hi {{.FirstName}},</h1>
    <p style="line-height: 1.6; color: #4b5563;">
      Your anniversary {{.WhenPhrase}}. A little planning now makes it easy to
      celebrate properly.
    </p>{{end}}`

const occasionHTML = `{{define "body"}}<h1 style="margin-bottom: 12px;">Hi {{.FirstName}},</h1>
    <p style="line-height: 1.6; color: #4b5563;">
      {{if .RecipientName}}{{.RecipientName}}'s {{.Occasion}}{{else}}{{.Occasion}}{{end}} {{.WhenPhrase}}.
      Don't let it sneak up on you.
    </p>{{end}}`

var (
	birthdayTmpl    = template.Must(template.Must(template.New("birthday").Parse(layoutHTML)).Parse(birthdayHTML))
	anniversaryTmpl = template.Must(template.Must(template.New("anniversary").Parse(layoutHTML)).Parse(anniversaryHTML))
	occasionTmpl    = template.Must(template.Must(template.New("occasion").Parse(layoutHTML)).Parse(occasionHTML))

	leftoverToken = regexp.MustCompile(`\{\{[^{}]*\}\}`)
)

func render(t *template.Template, d ReminderData) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", map[string]any{"Data": d}); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// BuildBirthdayEmail renders the built-in birthday reminder body.
func BuildBirthdayEmail(d ReminderData) (string, error) {
	return render(birthdayTmpl, d)
}

// BuildAnniversaryEmail renders the built-in anniversary reminder body.
func BuildAnniversaryEmail(d ReminderData) (string, error) {
	return render(anniversaryTmpl, d)
}

// BuildOccasionEmail renders the built-in occasion reminder body.
func BuildOccasionEmail(d ReminderData) (string, error) {
	return render(occasionTmpl, d)
}

// ApplyTokens substitutes every {{key}} occurrence (whitespace-tolerant
// inside the braces) with the corresponding value. Tokens with no matching
// key are removed rather than left as literal braces.
func ApplyTokens(tmpl string, replacements map[string]any) string {
	out := tmpl
	for key, value := range replacements {
		re := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		out = re.ReplaceAllLiteralString(out, fmt.Sprint(value))
	}
	return leftoverToken.ReplaceAllLiteralString(out, "")
}
