// internals/services/mailer/mailer.go
package mailer

import (
	"bytes"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"edumet_backend/internals/configs"
)

const (
	sgHost     = "https://api.sendgrid.com"
	sgEndpoint = "/v3/mail/send"

	fromName = "EduMet"
	fromAddr = "noreply@edumet.in"
)

// Context carries the template variables for a message.
type Context map[string]any

// SendSync renders the named template and delivers it. Failures are
// logged and returned but callers on non-OTP paths ignore them.
func SendSync(subject, templateName string, ctx Context, recipient string) error {
	tmpl, ok := templates[templateName]
	if !ok {
		log.Printf("[ERROR] mailer: unknown template %q", templateName)
		return errUnknownTemplate
	}

	var html bytes.Buffer
	if err := tmpl.Execute(&html, ctx); err != nil {
		log.Printf("[ERROR] mailer: rendering %q: %v", templateName, err)
		return err
	}

	return deliver(subject, html.String(), recipient)
}

// SendBackground is the fire-and-forget variant used everywhere except
// the synchronous OTP path. Delivery is unordered relative to the
// response; failures are only logged.
func SendBackground(subject, templateName string, ctx Context, recipient string) {
	go func() {
		_ = SendSync(subject, templateName, ctx, recipient)
	}()
}

func deliver(subject, htmlContent, recipient string) error {
	apiKey := configs.SendgridAPIKey
	if apiKey == "" {
		log.Printf("[WARN] mailer: no API key, dropping mail to %s (%s)", recipient, subject)
		return nil
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(fromName, fromAddr))

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", recipient))
	m.AddPersonalizations(p)

	m.AddContent(
		sgmail.NewContent("text/plain", stripTags(htmlContent)),
		sgmail.NewContent("text/html", htmlContent),
	)

	req := sendgrid.GetRequest(apiKey, sgEndpoint, sgHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Printf("[ERROR] mailer: sending to %s failed: %v", recipient, err)
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Printf("[ERROR] mailer: sending to %s - status %d - body %s", recipient, res.StatusCode, res.Body)
		return errDeliveryFailed
	}
	return nil
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(html string) string {
	text := tagRe.ReplaceAllString(html, "")
	return strings.TrimSpace(text)
}
