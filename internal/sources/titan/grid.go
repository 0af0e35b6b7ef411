package titan

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var headerDateRE = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// grid is the scheduling grid as saved in the export: one date per column
// header and the raw cell text of each day column, top to bottom.
type grid struct {
	dates   []string
	columns [][]string
}

// parseGrid locates the grid form in the document and collects the date
// header row and the per-day cell columns.
func parseGrid(src string) (*grid, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing grid document: %w", err)
	}

	form := findByID(doc, "gridForm")
	if form == nil {
		return nil, fmt.Errorf("document has no grid form")
	}

	g := &grid{}

	if header := findByID(form, "dateHeaderDiv"); header != nil {
		walk(header, func(n *html.Node) {
			if n.Type == html.ElementNode && hasClass(n, "dateHdrCell") {
				if m := headerDateRE.FindString(attr(n, "title")); m != "" {
					g.dates = append(g.dates, m)
				}
			}
		})
	}

	walk(form, func(n *html.Node) {
		if n.Type != html.ElementNode || !strings.HasPrefix(attr(n, "id"), "gCol") {
			return
		}
		var cells []string
		walk(n, func(c *html.Node) {
			if c.Type == html.ElementNode && hasClass(c, "cellBase") && hasClass(c, "pointerCursor") {
				cells = append(cells, textContent(c))
			}
		})
		g.columns = append(g.columns, cells)
	})

	return g, nil
}

// walk visits every node of the subtree in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	})
	return strings.TrimSpace(b.String())
}
