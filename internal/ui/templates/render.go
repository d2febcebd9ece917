// Package templates holds the HTML components of the dashboard pages. The
// components are written in .templ files; run `templ generate` after editing
// them and commit the generated *_templ.go files.
package templates

//go:generate templ generate

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/a-h/templ"
)

// RenderString renders c for use as a Datastar element patch.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// signals encodes v for a data-signals attribute. templ escapes the result.
func signals(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
