// Package fetcher downloads remote pages and extracts HTML tables into a
// plain row/column representation.
package fetcher

import (
	"context"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Table is one HTML table flattened to text cells. The first row of the
// source table becomes the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named header column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// TableSource fetches a document and returns every table found in it, in
// document order. It exists so positional table selection stays isolated and
// swappable in tests.
type TableSource interface {
	FetchTables(ctx context.Context, url string) ([]Table, error)
}

// HTMLTableSource implements TableSource over an HTTPFetcher.
type HTMLTableSource struct {
	fetcher *HTTPFetcher
}

// NewHTMLTableSource creates a TableSource backed by the given fetcher.
func NewHTMLTableSource(f *HTTPFetcher) *HTMLTableSource {
	return &HTMLTableSource{fetcher: f}
}

// FetchTables downloads the URL and parses every table in the document.
func (s *HTMLTableSource) FetchTables(ctx context.Context, url string) ([]Table, error) {
	body, contentType, err := s.fetcher.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	tables, err := ParseTables(body, contentType)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch tables: %s", url)
	}
	return tables, nil
}

// TableAt returns the table at the given document position. The Vitibrasil
// layout puts the data table 4th on the page; a missing position means the
// page shape changed and is a hard error.
func TableAt(tables []Table, index int) (*Table, error) {
	if index < 0 || index >= len(tables) {
		return nil, eris.Errorf("table index %d out of range (document has %d tables)", index, len(tables))
	}
	return &tables[index], nil
}

// ParseTables extracts all HTML tables from r in document order. The reader
// is decoded to UTF-8 using the Content-Type and in-document meta hints, so
// latin-1 pages come out correctly.
func ParseTables(r io.Reader, contentType string) ([]Table, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, eris.Wrap(err, "htmltable: charset detection")
	}

	doc, err := html.Parse(decoded)
	if err != nil {
		return nil, eris.Wrap(err, "htmltable: parse document")
	}

	var tables []Table
	collectTables(doc, &tables)
	return tables, nil
}

// collectTables walks the node tree appending every table element, outermost
// first. Nested tables are collected separately and excluded from the
// enclosing table's cells.
func collectTables(n *html.Node, out *[]Table) {
	if n.Type == html.ElementNode && n.Data == "table" {
		*out = append(*out, parseTable(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTables(c, out)
	}
}

func parseTable(table *html.Node) Table {
	var rows [][]string

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "tr":
				if cells := parseRow(n); len(cells) > 0 {
					rows = append(rows, cells)
				}
				return
			case "table":
				if n != table {
					return // nested table, collected on its own
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)

	if len(rows) == 0 {
		return Table{}
	}
	return Table{Header: rows[0], Rows: rows[1:]}
}

func parseRow(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, cellText(c))
		}
	}
	return cells
}

// cellText concatenates a cell's text nodes with whitespace collapsed,
// skipping the content of any nested table.
func cellText(n *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
