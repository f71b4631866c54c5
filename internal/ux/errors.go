package ux

import (
	"errors"
	"fmt"
	"strings"

	anverrors "github.com/anvilbuild/anvil/internal/errors"
)

// RenderError formats an error for terminal display. Coded errors get
// their code, suggestions, and documentation link laid out under the
// message; anything else prints as one line.
func RenderError(err error, st Styles) string {
	if err == nil {
		return ""
	}

	var anvilErr *anverrors.AnvilError
	if !errors.As(err, &anvilErr) {
		return st.Failure.Render("Error:") + " " + err.Error() + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n",
		st.Failure.Render("Error ["+string(anvilErr.Code)+"]:"),
		anvilErr.Message))
	if anvilErr.Cause != nil {
		b.WriteString("  " + st.Muted.Render(anvilErr.Cause.Error()) + "\n")
	}

	if len(anvilErr.Suggestions) > 0 {
		b.WriteString("\n")
		for _, suggestion := range anvilErr.Suggestions {
			b.WriteString("  " + st.Warning.Render("•") + " " + suggestion + "\n")
		}
	}

	if anvilErr.DocsURL != "" {
		b.WriteString("\n  " + st.Muted.Render("See "+anvilErr.DocsURL) + "\n")
	}
	return b.String()
}
