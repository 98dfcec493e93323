package web

import (
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/client/models"
)

// page is the data every template receives.
type page struct {
	Title  string
	Error  string
	Notice string
	Email  string
	Token  string
	User   *models.User
	Items  []item
}

type item struct {
	Key   string
	Value any
}

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}} - authgate</title></head><body>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{end}}

{{define "foot"}}</body></html>
{{end}}

{{define "wait"}}{{template "head" .}}
<p>Checking your session, please wait...</p>
{{template "foot" .}}{{end}}

{{define "message"}}{{template "head" .}}
<p><a href="/login">Log in</a></p>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}
<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Log in</button>
</form>
<p><a href="/signup">Create an account</a> | <a href="/forgot-password">Forgot password?</a></p>
{{template "foot" .}}{{end}}

{{define "signup"}}{{template "head" .}}
<form method="post" action="/signup">
<label>Username <input name="username"></label>
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<label>Confirm password <input type="password" name="confirmPassword"></label>
<button type="submit">Sign up</button>
</form>
{{template "foot" .}}{{end}}

{{define "verify"}}{{template "head" .}}
<form method="post" action="/verify-email">
<label>Token <input name="token" value="{{.Token}}"></label>
<button type="submit">Verify</button>
</form>
{{template "foot" .}}{{end}}

{{define "forgot"}}{{template "head" .}}
<form method="post" action="/forgot-password">
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<button type="submit">Send reset link</button>
</form>
{{template "foot" .}}{{end}}

{{define "reset"}}{{template "head" .}}
<form method="post" action="/reset-password">
<input type="hidden" name="token" value="{{.Token}}">
<label>New password <input type="password" name="password"></label>
<label>Confirm password <input type="password" name="confirmPassword"></label>
<button type="submit">Set password</button>
</form>
{{template "foot" .}}{{end}}

{{define "dashboard"}}{{template "head" .}}
<p>Signed in as {{.User.DisplayName}}</p>
<dl>{{range .Items}}<dt>{{.Key}}</dt><dd>{{.Value}}</dd>{{end}}</dl>
<p><a href="/profile">Profile</a></p>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
{{template "foot" .}}{{end}}

{{define "profile"}}{{template "head" .}}
{{with .User}}<dl>
<dt>Username</dt><dd>{{.Username}}</dd>
<dt>Email</dt><dd>{{.Email}}</dd>
<dt>Name</dt><dd>{{.DisplayName}}</dd>
{{if .Phone}}<dt>Phone</dt><dd>{{.Phone}}</dd>{{end}}
<dt>Verified</dt><dd>{{.IsVerified}}</dd>
{{if .IsAdmin}}<dt>Role</dt><dd>admin</dd>{{end}}
</dl>{{end}}
<p><a href="/dashboard">Dashboard</a></p>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
{{template "foot" .}}{{end}}
`))

// render writes the named template with status. A template failure after
// the header went out cannot change the status; it only truncates the page.
func render(w http.ResponseWriter, status int, name string, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.ExecuteTemplate(w, name, p)
}
