package notification

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type mailTemplate struct {
	subject string
	body    string // markdown
}

const (
	tplSubmitted = "submitted"
	tplPending   = "pending"
	tplApproved  = "approved"
	tplRejected  = "rejected"
	tplReturned  = "returned"
	tplReminder  = "reminder"
	tplExpiry    = "expiry"
	tplAlert     = "alert"
)

const applicationSummary = `
| | |
|---|---|
| Application | {{.ApplicationNumber}} |
| Applicant | {{.ApplicantName}} |
| Permit type | {{.PermitType}} |
| Water source | {{.WaterSource}} |
| Allocation | {{.Allocation}} ML/annum |
| Current stage | {{.StageName}} |
`

var mailTemplates = map[string]mailTemplate{
	tplSubmitted: {
		subject: "Application {{.ApplicationNumber}} submitted for review",
		body: `## New application submitted

Application **{{.ApplicationNumber}}** was submitted by {{.ActorName}} ({{.ActorRole}}) and is awaiting your review.
` + applicationSummary + `
[Open the application]({{.Link}})
`,
	},
	tplPending: {
		subject: "Application {{.ApplicationNumber}} pending your review",
		body: `## Application pending review

{{.ActorName}} ({{.ActorRole}}) moved application **{{.ApplicationNumber}}** to **{{.StageName}}**.
{{if .Comment}}
> {{.Comment}}
{{end}}` + applicationSummary + `
[Open the application]({{.Link}})
`,
	},
	tplApproved: {
		subject: "Application {{.ApplicationNumber}} approved, permit {{.PermitNumber}}",
		body: `## Application approved

Application **{{.ApplicationNumber}}** for **{{.ApplicantName}}** was approved by {{.ActorName}}.

- Permit number: **{{.PermitNumber}}**
- Valid until: {{.ValidUntil}}

The permit is attached to this message.
{{if .Comment}}
> {{.Comment}}
{{end}}
[Open the application]({{.Link}})
`,
	},
	tplRejected: {
		subject: "Application {{.ApplicationNumber}} rejected",
		body: `## Application rejected

Application **{{.ApplicationNumber}}** for **{{.ApplicantName}}** was rejected by {{.ActorName}}.

**Reason:**

> {{.Comment}}

[Open the application]({{.Link}})
`,
	},
	tplReturned: {
		subject: "Application {{.ApplicationNumber}} returned to the permitting officer",
		body: `## Application returned

{{.ActorName}} ({{.ActorRole}}) returned application **{{.ApplicationNumber}}** to the permitting officer.

**Reason:**

> {{.Comment}}

Please update the application and submit it again.

[Open the application]({{.Link}})
`,
	},
	tplReminder: {
		subject: "Reminder: application {{.ApplicationNumber}} awaits review",
		body: `## Review reminder

Application **{{.ApplicationNumber}}** has been waiting at **{{.StageName}}** for {{.IdleHours}} hours.
` + applicationSummary + `
[Open the application]({{.Link}})
`,
	},
	tplExpiry: {
		subject: "Permit {{.PermitNumber}} expires on {{.ValidUntil}}",
		body: `## Permit expiry notice

Permit **{{.PermitNumber}}** issued to **{{.ApplicantName}}** (application {{.ApplicationNumber}}) expires on **{{.ValidUntil}}**.

Please contact the applicant about renewal.

[Open the application]({{.Link}})
`,
	},
	tplAlert: {
		subject: "System alert: {{.Subject}}",
		body: `## System alert

{{.Details}}
`,
	},
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// render returns the subject, the markdown text and its html rendering.
func render(name string, data any) (subject, text, html string, err error) {
	tpl, ok := mailTemplates[name]
	if !ok {
		return "", "", "", errors.Errorf("unknown mail template: %v", name)
	}
	subject, err = execute(name+"_subject", tpl.subject, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = execute(name+"_body", tpl.body, data)
	if err != nil {
		return "", "", "", err
	}
	buf := new(bytes.Buffer)
	if err = markdown.Convert([]byte(text), buf); err != nil {
		return "", "", "", errors.Wrap(err, "failed to render markdown")
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}

func execute(name, body string, data any) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %v", name)
	}
	buf := new(bytes.Buffer)
	if err = tpl.Execute(buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %v", name)
	}
	return buf.String(), nil
}
