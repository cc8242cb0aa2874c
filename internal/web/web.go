// Package web holds the embedded HTML templates for the receipt form.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

// Templates parses every embedded template
func Templates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"kb": func(n int) string {
			return fmt.Sprintf("%.0f KB", float64(n)/1024)
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
