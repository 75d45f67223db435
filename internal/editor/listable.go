package editor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/lists/internal/validation"
	"github.com/amonks/lists/listable"
)

// ListableData is the editable part of a list or note.
type ListableData struct {
	ID            string
	Name          string
	Type          string
	SubType       string
	KeepDoneItems bool
	Description   string
}

// DataFromListable returns the editable fields of l.
func DataFromListable(l listable.Listable) ListableData {
	return ListableData{
		ID:            l.ID,
		Name:          l.Name,
		Type:          string(l.Type),
		SubType:       string(l.SubType),
		KeepDoneItems: l.KeepDoneItems,
		Description:   l.Description,
	}
}

var listableTemplate = template.Must(template.New("listable").Funcs(template.FuncMap{
	"types": func() string {
		return validation.FormatValidValues(listable.ValidTypes())
	},
}).Parse(`# {{ .ID }}
name = {{ printf "%q" .Name }}
type = {{ printf "%q" .Type }} # {{ types }}
subtype = {{ printf "%q" .SubType }} # see ` + "`lists types`" + `
keep_done = {{ .KeepDoneItems }}
---
{{ .Description }}
`))

// RenderListableTOML renders the data as TOML frontmatter followed by the
// description.
func RenderListableTOML(data ListableData) (string, error) {
	var buf bytes.Buffer
	if err := listableTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedListable is the result of editing a listable.
type ParsedListable struct {
	Name          string `toml:"name"`
	Type          string `toml:"type"`
	SubType       string `toml:"subtype"`
	KeepDoneItems bool   `toml:"keep_done"`
	Description   string `toml:"-"`
}

// ParseListableTOML parses and validates edited content.
func ParseListableTOML(content string) (*ParsedListable, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedListable
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Description = strings.TrimRight(strings.TrimLeft(body, "\n"), "\n")
	parsed.Type = strings.ToLower(strings.TrimSpace(parsed.Type))
	parsed.SubType = strings.ToLower(strings.TrimSpace(parsed.SubType))

	name, err := listable.ValidateName(parsed.Name)
	if err != nil {
		return nil, err
	}
	parsed.Name = name
	if err := listable.ValidateType(listable.Type(parsed.Type), listable.SubType(parsed.SubType)); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// EditListable opens l in the editor and returns the parsed result.
func EditListable(l listable.Listable) (*ParsedListable, error) {
	content, err := RenderListableTOML(DataFromListable(l))
	if err != nil {
		return nil, err
	}
	edited, err := EditText("lists-*.md", content)
	if err != nil {
		return nil, err
	}
	return ParseListableTOML(edited)
}

// EditNote opens the content of a note in the editor.
func EditNote(l listable.Listable) (string, error) {
	edited, err := EditText("lists-note-*.md", l.NoteContent)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(edited, "\r\n"), nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}
