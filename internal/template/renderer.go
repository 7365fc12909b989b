package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
)

//go:embed tmpl/*.html
var files embed.FS

const (
	templateDir string = "tmpl"
)

// Data is passed to every page.
type Data struct {
	PageTitle string
	User      *model.UserProfile
	Flash     string
	Error     string
	Content   any
}

var funcs = template.FuncMap{
	"money": Money,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"inc": func(i int) int { return i + 1 },
	"dec": func(i int) int { return i - 1 },
}

func Money(v float64) string {
	return fmt.Sprintf("$ %.2f", v)
}

func Render(w http.ResponseWriter, r *http.Request, tmpl string, td any) error {
	return RenderStatus(w, r, http.StatusOK, tmpl, td)
}

func RenderStatus(w http.ResponseWriter, _ *http.Request, status int, tmpl string, td any) error {
	t, err := template.New(tmpl).Funcs(funcs).ParseFS(files,
		templateDir+"/"+tmpl,
		templateDir+"/"+"base.html",
	)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}

	err = t.ExecuteTemplate(buf, "base", td)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
