package main

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"golang.org/x/tools/txtar"
)

//go:embed templates.txt
var defaultTemplates string

const reportTemplateName = "report.html.tmpl"

// loadTemplates parses the report template from the txtar archive at path,
// or from the embedded archive when path is empty.
func loadTemplates(path string) (*template.Template, error) {
	templateData := defaultTemplates
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read templates: %w", err)
		}
		templateData = string(data)
	}

	archive := txtar.Parse([]byte(templateData))
	templates := make(map[string]string)
	for _, file := range archive.Files {
		templates[file.Name] = string(file.Data)
	}

	reportTmpl, ok := templates[reportTemplateName]
	if !ok {
		return nil, fmt.Errorf("templates: no %s in archive", reportTemplateName)
	}
	tmpl, err := template.New("report").Parse(reportTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", reportTemplateName, err)
	}
	return tmpl, nil
}
