package extract

// Renderer converts a raw filing document into plain text.
// Implementations must be deterministic and free of side effects.
type Renderer interface {
    Render(input []byte) (Document, error)
}

// HTMLRenderer renders HTML, XBRL-inline and SGML-wrapped filings with
// FromHTML. Plain text passes through as a single text node.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(input []byte) (Document, error) {
    return FromHTML(input)
}
