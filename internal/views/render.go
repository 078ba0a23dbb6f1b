// Package views renders the HTML pages from embedded templates.
package views

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/kjstillabower/city-weather-web/internal/models"
)

var pageTmpl *template.Template

var funcs = template.FuncMap{
	"temp": formatTemp,
	// degree is the symbol placed before the units letter; Kelvin takes none.
	"degree": func(letter string) string {
		if letter == "K" {
			return ""
		}
		return "°"
	},
	// num renders the shortest exact form, so 3.2 stays "3.2".
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
}

// formatTemp shows the reading at full precision and keeps a ".0" on whole
// values, so 288.15 stays "288.15" and 15 renders as "15.0".
func formatTemp(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	for _, name := range []string{"home.html", "results.html", "comparison_results.html", "error.html"} {
		if tmpl.Lookup(name) == nil {
			return fmt.Errorf("template %s not found in %s", name, dir)
		}
	}
	pageTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

func render(w io.Writer, name string, data any) error {
	if pageTmpl == nil {
		return errors.New("page templates not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, name, data)
}

func RenderHome(w io.Writer, data *models.HomePage) error {
	return render(w, "home.html", data)
}

func RenderResults(w io.Writer, data *models.ResultsPage) error {
	return render(w, "results.html", data)
}

func RenderComparison(w io.Writer, data *models.ComparisonPage) error {
	return render(w, "comparison_results.html", data)
}

// RenderError renders the failure page shown instead of a results page.
func RenderError(w io.Writer, data *models.ErrorPage) error {
	return render(w, "error.html", data)
}
