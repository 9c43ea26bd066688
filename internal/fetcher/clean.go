package fetcher

import (
	"clemfr/grantwatch/helpers"

	"github.com/PuerkitoBio/goquery"
)

// strippedElements are page parts that carry no grant content
const strippedElements = "script, style, nav, footer, header, aside, iframe, noscript"

// TextFromDocument extracts the visible text of a page, with chrome elements
// removed and whitespace collapsed.
func TextFromDocument(doc *goquery.Document) string {
	doc.Find(strippedElements).Remove()
	return helpers.CollapseWhitespace(doc.Text())
}
