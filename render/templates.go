package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"qrender/common"
	"qrender/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	ID         string
	Name       string
	Source     string
	Tags       []string
	Format     string
	SourceFile string
}

func expandTemplate(rec *record, name config.TemplateFieldName, field, src string, format common.OutputFmt) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		ID:         string(rec.ID),
		Name:       rec.Name,
		Source:     rec.Source,
		Tags:       rec.Tags,
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
