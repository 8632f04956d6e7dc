package nav

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoContainer is returned when a fetched page has no content container.
var ErrNoContainer = errors.New("nav: content container not found")

// ExtractContent parses a full HTML document and returns the inner markup
// of the element whose id is containerID.
func ExtractContent(doc, containerID string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("nav: parse page: %w", err)
	}
	el := findByID(root, containerID)
	if el == nil {
		return "", ErrNoContainer
	}
	var b strings.Builder
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("nav: render content: %w", err)
		}
	}
	return b.String(), nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
