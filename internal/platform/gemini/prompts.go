package gemini

import "text/template"

// Prompt templates are compiled once at package init. They are deliberately
// plain: the wording is a product concern and gets tuned without touching
// the call path.

var extractPromptTmpl = template.Must(template.New("extract").Parse(
	`Extract the job posting below into JSON with the fields: title, company,
description, skills (array of strings), location, salary, posting_date
(YYYY-MM-DD), application_url, contact_name, contact_email. Use an empty
value for anything the posting does not state. Respond with JSON only.

Posting content:
{{.Raw}}`))

var listPromptTmpl = template.Must(template.New("list").Parse(
	`Extract every job posting advertised on the listing page below into JSON
of the form {"jobs": [...]}, where each entry has the fields: title,
company, description, skills (array of strings), location, salary,
posting_date (YYYY-MM-DD), application_url, contact_name, contact_email.
Use an empty value for anything the listing does not state. Respond with
JSON only.

Listing content:
{{.Raw}}`))

var matchPromptTmpl = template.Must(template.New("match").Parse(
	`Rate how well the candidate below fits the job posting. Respond with JSON
only, with fields: score (integer 0-100) and rationale (one short paragraph).

Job posting:
Title: {{.Job.Title}}
Company: {{.Job.Company}}
Description: {{.Job.Description}}
Required skills: {{range .Job.Skills}}{{.}}, {{end}}

Candidate CV:
{{.Profile.CVText}}`))

var letterPromptTmpl = template.Must(template.New("letter").Parse(
	`Write a concise, specific cover letter for the job posting below, in the
candidate's voice. Do not invent experience the CV does not support. Plain
text only, no placeholders.

Job posting:
Title: {{.Job.Title}}
Company: {{.Job.Company}}
Description: {{.Job.Description}}

Candidate name: {{.Profile.Name}}
Candidate CV:
{{.Profile.CVText}}`))

var emailPromptTmpl = template.Must(template.New("email").Parse(
	`Write a short, polite outreach email (subject line first) to
{{if .Job.ContactName}}{{.Job.ContactName}}{{else}}the hiring team{{end}}
about the job posting below, from the candidate. Two paragraphs at most.
Plain text only.

Job posting:
Title: {{.Job.Title}}
Company: {{.Job.Company}}

Candidate name: {{.Profile.Name}}
Candidate CV:
{{.Profile.CVText}}`))
