package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Snippet is a captured piece of page markup cleaned for report
// attachments: scripts, styles and comments removed, whitespace collapsed,
// length bounded.
type Snippet struct {
	HTML      string
	Truncated bool
}

// keptAttributes are the attributes preserved on cleaned elements; they
// are the ones a human needs to recognize the element in a failure report.
var keptAttributes = map[string]bool{
	"id":    true,
	"class": true,
	"name":  true,
	"type":  true,
	"value": true,
	"href":  true,
	"role":  true,
}

// noiseElements never contribute to a readable snippet.
var noiseElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"iframe":   true,
}

// CleanSnippet reduces raw captured HTML to a readable, bounded snippet.
func CleanSnippet(rawHTML string, maxLength int) (*Snippet, error) {
	if maxLength <= 0 {
		maxLength = 2000
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse captured HTML: %w", err)
	}

	var b strings.Builder
	length := 0
	truncated := writeNode(doc, &b, &length, maxLength)

	return &Snippet{
		HTML:      strings.TrimSpace(b.String()),
		Truncated: truncated,
	}, nil
}

func writeNode(n *html.Node, b *strings.Builder, length *int, maxLength int) bool {
	if *length >= maxLength {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false

	case html.TextNode:
		text := collapseSpace(n.Data)
		if text == "" {
			return false
		}
		if *length+len(text) > maxLength {
			text = text[:maxLength-*length]
			b.WriteString(text)
			*length = maxLength
			return true
		}
		b.WriteString(text)
		*length += len(text)
		return false

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if noiseElements[tag] {
			return false
		}
		open := openTag(tag, n.Attr)
		b.WriteString(open)
		*length += len(open)

		truncated := writeChildren(n, b, length, maxLength)

		closing := "</" + tag + ">"
		b.WriteString(closing)
		*length += len(closing)
		return truncated
	}

	return writeChildren(n, b, length, maxLength)
}

func writeChildren(n *html.Node, b *strings.Builder, length *int, maxLength int) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if writeNode(child, b, length, maxLength) {
			return true
		}
	}
	return false
}

func openTag(tag string, attrs []html.Attribute) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, attr := range attrs {
		if keptAttributes[strings.ToLower(attr.Key)] {
			fmt.Fprintf(&b, " %s=%q", attr.Key, attr.Val)
		}
	}
	b.WriteString(">")
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
