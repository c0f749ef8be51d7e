package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims a scraped text node down to something presentable:
// non-printable characters removed, inner whitespace runs collapsed.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// StrippedText returns the selection's text with the given child
// selector removed first. Genie wraps age rating badges in <span>
// inside title nodes, which would otherwise leak into the text.
func StrippedText(sel *goquery.Selection, strip string) string {
	cloned := sel.Clone()
	cloned.Find(strip).Remove()
	return CleanText(cloned.Text())
}

// ParseCount parses a comma-grouped integer like "1,234,567".
func ParseCount(s string) (int64, error) {
	s = strings.ReplaceAll(CleanText(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("parse count: empty text")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	return n, nil
}
