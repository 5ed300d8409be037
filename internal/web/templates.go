package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type loginView struct {
	AwaitingCode bool
	Identity     string
	Error        string
	DebugCode    string
}

type successView struct {
	Identity          string
	GatewayCredential string
}
