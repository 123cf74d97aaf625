// Package static embeds the how-to and about pages and renders them for the
// terminal
package static

import (
	"embed"
	"path"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jojocoffee/serenity/internal/apperr"
)

const filesDir = "files"

// Page names.
const (
	HowTo = "howto"
	About = "about"
)

const defaultWrap = 80

//go:embed files/*
var embeddedFiles embed.FS

var (
	errUnknownPage = &apperr.Error{
		Message: "unknown page: %s",
	}

	errRender = &apperr.Error{
		Message: "unable to render %s",
	}
)

// Markdown returns the source of the named page.
func Markdown(page string) (string, error) {
	b, err := embeddedFiles.ReadFile(path.Join(filesDir, page+".md"))
	if err != nil {
		return "", errUnknownPage.Fmt(page)
	}

	return string(b), nil
}

// Render returns the named page styled for the terminal, wrapped at width
// columns. Without colour the page is rendered in plain text.
func Render(page string, width int, dark, color bool) (string, error) {
	md, err := Markdown(page)
	if err != nil {
		return "", err
	}

	if width <= 0 {
		width = defaultWrap
	}

	style := "light"

	switch {
	case !color:
		style = "notty"
	case dark:
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", errRender.Fmt(page).Wrap(err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", errRender.Fmt(page).Wrap(err)
	}

	return strings.TrimRight(out, "\n") + "\n", nil
}
