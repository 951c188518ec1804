// Package inspect reports what a full DOM parse finds in an export page.
// It is a diagnostic for pages that yield fewer rows than expected; the
// extraction itself never builds a DOM.
package inspect

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Report summarises the price tables on a page.
type Report struct {
	Title      string      `json:"title" yaml:"title"`
	Containers []Container `json:"containers" yaml:"containers"`
}

// Container describes one div whose class equals the container class.
type Container struct {
	Tables int `json:"tables" yaml:"tables"`
	Rows   int `json:"rows" yaml:"rows"`
	// Rows without any td cell; extraction drops these.
	EmptyRows int `json:"empty_rows" yaml:"empty_rows"`
	// Widest row in td cells.
	MaxCells int `json:"max_cells" yaml:"max_cells"`
	// Divs nested before the first table close the container early
	// during extraction, so its rows are not read.
	NestedDivs bool `json:"nested_divs" yaml:"nested_divs"`
}

// Page parses html and reports every container div carrying class.
func Page(html, class string) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse document: %w", err)
	}

	report := Report{
		Title:      strings.TrimSpace(doc.Find("title").First().Text()),
		Containers: make([]Container, 0),
	}

	doc.Find("body div").Each(func(_ int, div *goquery.Selection) {
		if !hasExactClass(div, class) {
			return
		}

		var c Container
		tables := div.Find("table")
		c.Tables = tables.Length()
		tables.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			c.Rows++
			cells := tr.ChildrenFiltered("td").Length()
			if cells == 0 {
				c.EmptyRows++
			}
			if cells > c.MaxCells {
				c.MaxCells = cells
			}
		})
		c.NestedDivs = nestedDivBeforeTable(div)

		report.Containers = append(report.Containers, c)
	})

	return report, nil
}

// hasExactClass compares the whole class attribute, as extraction does,
// rather than matching one class token.
func hasExactClass(s *goquery.Selection, class string) bool {
	for _, a := range s.Nodes[0].Attr {
		if a.Key == "class" && a.Val == class {
			return true
		}
	}
	return false
}

func nestedDivBeforeTable(container *goquery.Selection) bool {
	nested := false
	container.Find("div, table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "table" {
			return false
		}
		nested = true
		return false
	})
	return nested
}
