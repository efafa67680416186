package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"fincheck/internal/export"
	"fincheck/internal/finance"
)

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background-color:#f3f4f6;">
<table role="presentation" style="width:100%;border-collapse:collapse;">
<tr><td style="padding:32px 0;text-align:center;background-color:#0f766e;">
<h1 style="margin:0;color:#ffffff;font-size:26px;">Fincheck</h1>
</td></tr>
<tr><td style="padding:32px 16px;">
<table role="presentation" style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:12px;">
<tr><td style="padding:32px;">{{template "content" .}}</td></tr>
</table>
</td></tr>
</table>
</body>
</html>{{end}}`

const welcomeTemplate = `{{define "content"}}
<h2 style="margin:0 0 16px 0;color:#1f2937;">Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
<p style="color:#4b5563;line-height:1.6;">Your Fincheck account is ready. Set up this month's budget to start tracking what is safe to spend.</p>
<p><a href="{{.AppURL}}" style="display:inline-block;padding:14px 28px;background-color:#0f766e;color:#ffffff;text-decoration:none;border-radius:8px;">Open Fincheck</a></p>
{{end}}`

const weeklyTemplate = `{{define "content"}}
<h2 style="margin:0 0 16px 0;color:#1f2937;">Your week, {{.Name}}</h2>
<p style="color:#6b7280;">{{.Range}}</p>
<table role="presentation" style="width:100%;margin:16px 0;">
<tr><td style="color:#4b5563;">Income</td><td style="text-align:right;color:#047857;">{{.Income}}</td></tr>
<tr><td style="color:#4b5563;">Expenses</td><td style="text-align:right;color:#b91c1c;">{{.Expenses}}</td></tr>
<tr><td style="color:#4b5563;">Monthly budget used</td><td style="text-align:right;">{{.PercentUsed}}%</td></tr>
</table>
<p style="color:#4b5563;">{{.Comparison}}</p>
<p><a href="{{.AppURL}}" style="color:#0f766e;">See the full dashboard</a></p>
{{end}}`

var (
	welcomeTmpl = template.Must(template.Must(template.New("welcome").Parse(layoutTemplate)).Parse(welcomeTemplate))
	weeklyTmpl  = template.Must(template.Must(template.New("weekly").Parse(layoutTemplate)).Parse(weeklyTemplate))
)

func render(tmpl *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}

// WelcomeMessage builds the email sent after registration.
func WelcomeMessage(to, name, appURL string) (Message, error) {
	html, err := render(welcomeTmpl, struct {
		Title  string
		Name   string
		AppURL string
	}{Title: "Welcome to Fincheck", Name: name, AppURL: appURL})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Welcome to Fincheck", HTML: html}, nil
}

// WeeklySummaryMessage builds the weekly summary email for one user.
func WeeklySummaryMessage(r finance.WeeklyReport, appURL string) (Message, error) {
	name := r.Name
	if name == "" {
		name = r.Email
	}
	html, err := render(weeklyTmpl, struct {
		Title       string
		Name        string
		Range       string
		Income      string
		Expenses    string
		PercentUsed string
		Comparison  string
		AppURL      string
	}{
		Title:       "Your weekly summary",
		Name:        name,
		Range:       r.WeekStart.Format("Jan 2") + " to " + r.WeekEnd.Format("Jan 2, 2006"),
		Income:      export.FormatAmount(r.TotalIncome, r.Currency),
		Expenses:    export.FormatAmount(r.TotalExpenses, r.Currency),
		PercentUsed: r.PercentUsed.StringFixed(1),
		Comparison:  r.ComparisonText,
		AppURL:      appURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      r.Email,
		Subject: fmt.Sprintf("Your Fincheck week: %s", r.WeekStart.Format("Jan 2")),
		HTML:    html,
	}, nil
}
