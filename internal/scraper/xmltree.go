package scraper

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// parseDocument checks that raw is well-formed XML and returns it as a
// goquery document. The HTML parser behind goquery.NewDocumentFromReader
// would reshape <table> content and self-closing tags, so the node tree is
// built from the XML token stream and handed to goquery only for querying.
// Element names are lower-cased because selectors match lower-case tags.
func parseDocument(raw string) (*goquery.Document, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	doc := &html.Node{Type: html.DocumentNode}
	cur := doc
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if cur == doc && sawRoot {
				return nil, errors.Newf("unexpected element <%s> after root element", t.Name.Local)
			}
			n := &html.Node{Type: html.ElementNode, Data: strings.ToLower(t.Name.Local)}
			for _, a := range t.Attr {
				n.Attr = append(n.Attr, html.Attribute{Key: a.Name.Local, Val: a.Value})
			}
			cur.AppendChild(n)
			cur = n
			sawRoot = true
		case xml.EndElement:
			cur = cur.Parent
		case xml.CharData:
			if cur == doc {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errors.New("text outside root element")
				}
				continue
			}
			cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}

	if !sawRoot {
		return nil, errors.New("no root element")
	}

	return goquery.NewDocumentFromNode(doc), nil
}
