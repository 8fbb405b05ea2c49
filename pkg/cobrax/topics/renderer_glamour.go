package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Glamour style names.
const (
	// StyleAuto picks a style from the terminal, or StyleNoTTY when
	// NO_COLOR is set.
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
	StyleDark  = "dark"
	StyleLight = "light"
)

// GlamourRenderer renders markdown topics with glamour. Other extensions
// are printed unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name or the path of a JSON style file.
	Style string
	// Width wraps text at the given column. 0 keeps glamour's default.
	Width int
}

// NewGlamourRenderer returns a renderer using StyleAuto.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: StyleAuto}
}

// StyleFor returns StyleNoTTY for plain output, and otherwise the dark or
// light style matching the terminal background.
func StyleFor(plain bool) string {
	if plain {
		return StyleNoTTY
	}
	if termenv.HasDarkBackground() {
		return StyleDark
	}
	return StyleLight
}

func (r *GlamourRenderer) styleOption() glamour.TermRendererOption {
	switch r.Style {
	case "", StyleAuto:
		if os.Getenv("NO_COLOR") != "" {
			return glamour.WithStylePath(StyleNoTTY)
		}
		return glamour.WithAutoStyle()
	default:
		return glamour.WithStylePath(r.Style)
	}
}

// Render implements Renderer. Rendering errors print the raw markdown.
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	options := []glamour.TermRendererOption{r.styleOption()}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
