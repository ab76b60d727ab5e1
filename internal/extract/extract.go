package extract

import (
    "bytes"
    "fmt"
    "io"
    "strings"
    "unicode/utf8"

    "golang.org/x/net/html"
    "golang.org/x/net/html/charset"
)

// Document is the plain-text rendering of a filing document.
type Document struct {
    Title string
    Text  string
}

// FromHTML renders markup to text. Every text node becomes its own line, so
// element boundaries show up as line breaks; the normalizer downstream is
// responsible for repairing headings split this way. Input that is not valid
// UTF-8 is decoded per its BOM or <meta> declaration, defaulting to
// windows-1252, which is common in older EDGAR filings.
func FromHTML(input []byte) (Document, error) {
    var r io.Reader = bytes.NewReader(input)
    if !utf8.Valid(input) {
        var err error
        r, err = charset.NewReader(r, "text/html")
        if err != nil {
            return Document{}, fmt.Errorf("detect charset: %w", err)
        }
    }
    node, err := html.Parse(r)
    if err != nil {
        return Document{}, fmt.Errorf("parse markup: %w", err)
    }

    var parts []string
    collectText(&parts, node)
    return Document{
        Title: strings.TrimSpace(findTitle(node)),
        Text:  strings.Join(parts, "\n"),
    }, nil
}

func findTitle(n *html.Node) string {
    head := findFirst(n, "head")
    if head == nil {
        return ""
    }
    t := findFirst(head, "title")
    if t == nil || t.FirstChild == nil {
        return ""
    }
    return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
    var res *html.Node
    var dfs func(*html.Node)
    dfs = func(cur *html.Node) {
        if res != nil {
            return
        }
        if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
            res = cur
            return
        }
        for c := cur.FirstChild; c != nil; c = c.NextSibling {
            dfs(c)
            if res != nil {
                return
            }
        }
    }
    dfs(n)
    return res
}

func collectText(parts *[]string, n *html.Node) {
    if n.Type == html.ElementNode {
        switch strings.ToLower(n.Data) {
        case "script", "style", "template", "noscript":
            return
        }
    }
    if n.Type == html.TextNode {
        *parts = append(*parts, n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(parts, c)
    }
}
