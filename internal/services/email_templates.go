package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type emailTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newEmailTemplate(name, subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + "_subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + "_text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + "_html").Parse(html)),
	}
}

func (t emailTemplate) render(to string, data any) (EmailMessage, error) {
	var subject, text, html bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return EmailMessage{}, fmt.Errorf("render subject: %w", err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return EmailMessage{}, fmt.Errorf("render text: %w", err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return EmailMessage{}, fmt.Errorf("render html: %w", err)
	}
	return EmailMessage{To: []string{to}, Subject: subject.String(), Text: text.String(), HTML: html.String()}, nil
}

const emailLayoutStart = `<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto;color:#111">`
const emailLayoutEnd = `<p style="color:#666;font-size:12px">SALLY Fleet Dispatch</p></div>`

var (
	invitationEmail = newEmailTemplate("invitation",
		`You're invited to join {{.CompanyName}} on SALLY`,
		`Hi {{.FirstName}},

{{.InviterName}} invited you to join {{.CompanyName}} on SALLY as {{.Role}}.

Accept the invitation: {{.Link}}
`,
		emailLayoutStart+`<p>Hi {{.FirstName}},</p>
<p>{{.InviterName}} invited you to join <strong>{{.CompanyName}}</strong> on SALLY as {{.Role}}.</p>
<p><a href="{{.Link}}">Accept invitation</a></p>`+emailLayoutEnd)

	registrationEmail = newEmailTemplate("registration",
		`We received your SALLY registration for {{.CompanyName}}`,
		`Hi {{.FirstName}},

Thanks for registering {{.CompanyName}}. Your account is pending approval and we will email you once it is reviewed.
`,
		emailLayoutStart+`<p>Hi {{.FirstName}},</p>
<p>Thanks for registering <strong>{{.CompanyName}}</strong>. Your account is pending approval and we will email you once it is reviewed.</p>`+emailLayoutEnd)

	approvalEmail = newEmailTemplate("approval",
		`{{.CompanyName}} is approved on SALLY`,
		`Hi {{.FirstName}},

{{.CompanyName}} has been approved. Sign in at {{.Link}}
`,
		emailLayoutStart+`<p>Hi {{.FirstName}},</p>
<p><strong>{{.CompanyName}}</strong> has been approved.</p>
<p><a href="{{.Link}}">Sign in to SALLY</a></p>`+emailLayoutEnd)

	rejectionEmail = newEmailTemplate("rejection",
		`Update on your SALLY registration for {{.CompanyName}}`,
		`Hi {{.FirstName}},

We could not approve {{.CompanyName}} at this time.

Reason: {{.Reason}}
`,
		emailLayoutStart+`<p>Hi {{.FirstName}},</p>
<p>We could not approve <strong>{{.CompanyName}}</strong> at this time.</p>
<p>Reason: {{.Reason}}</p>`+emailLayoutEnd)
)
