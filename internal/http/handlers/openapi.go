package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
)

//go:embed openapi.json
var openAPISpec []byte

type openAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// docsInfo is read once from the embedded document so the docs page and the
// served JSON never disagree on title or version.
var docsInfo = func() openAPIInfo {
	var doc struct {
		Info openAPIInfo `json:"info"`
	}
	if err := json.Unmarshal(openAPISpec, &doc); err != nil || doc.Info.Title == "" {
		return openAPIInfo{Title: "donorcrm API"}
	}
	return doc.Info
}()

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}{{if .Version}} {{.Version}}{{end}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; padding: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs renders a Redoc page pointing at the sibling openapi.json.
func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/docs")
	var buf bytes.Buffer
	err := docsTemplate.Execute(&buf, struct {
		Title   string
		Version string
		SpecURL string
	}{docsInfo.Title, docsInfo.Version, base + "/openapi.json"})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "render docs")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
