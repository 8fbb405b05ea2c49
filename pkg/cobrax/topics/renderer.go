package topics

// Renderer formats the content of a topic file for display. ext is the
// file extension including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics unchanged.
type PlainRenderer struct{}

// Render implements Renderer.
func (PlainRenderer) Render(content string, _ string) string {
	return content
}
