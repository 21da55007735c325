package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse HTML into a DOM tree
- Walk it in pre-order, skipping the entire subtree of any ignored element
- Collect body text, the first <title>, and outgoing <a href> links

This mirrors traverse.rs's Edge::Open/Edge::Close skip-subtree walk: an
ignored element's children, including nested non-ignored elements, never
contribute text or links.
*/

// Extractor is the port spec.md §4.1 step 5's body/title/link extraction
// runs behind, letting callers depend on an interface instead of
// DomExtractor directly.
type Extractor interface {
	Extract(sourceUrl url.URL, htmlByte []byte) (ExtractionResult, failure.ClassifiedError)
}

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(metadataSink metadata.MetadataSink) DomExtractor {
	return DomExtractor{metadataSink: metadataSink}
}

func (d *DomExtractor) Extract(
	sourceUrl url.URL,
	htmlByte []byte,
) (ExtractionResult, failure.ClassifiedError) {
	result, err := d.extract(sourceUrl, htmlByte)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"DomExtractor.Extract",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fmt.Sprintf("%v", sourceUrl)),
			},
		)
		return ExtractionResult{}, extractionError
	}
	return result, nil
}

func (d *DomExtractor) extract(sourceUrl url.URL, htmlByte []byte) (ExtractionResult, error) {
	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return ExtractionResult{}, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseUnparsable,
		}
	}

	w := walker{source: sourceUrl, seenLinks: make(map[string]struct{})}
	w.walk(doc)

	return ExtractionResult{
		BodyText: collapseWhitespace(w.text.String()),
		Title:    w.title,
		Links:    w.links,
	}, nil
}

type walker struct {
	text      strings.Builder
	title     string
	titleSet  bool
	source    url.URL
	seenLinks map[string]struct{}
	links     []url.URL
}

func (w *walker) walk(n *html.Node) {
	if n.Type == html.ElementNode && isIgnoredTag(n.Data) {
		if n.Data == "title" && !w.titleSet {
			w.title = innerText(n)
			w.titleSet = true
		}
		return
	}

	if n.Type == html.ElementNode && n.Data == "a" {
		w.collectLink(n)
	}

	if n.Type == html.TextNode {
		w.text.WriteString(n.Data)
		w.text.WriteByte(' ')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) collectLink(a *html.Node) {
	href, ok := attr(a, "href")
	if !ok || href == "" {
		return
	}
	resolved, ok := urlutil.Resolve(w.source, href)
	if !ok {
		return
	}
	if resolved == w.source {
		return
	}
	if _, dup := w.seenLinks[resolved.String()]; dup {
		return
	}
	w.seenLinks[resolved.String()] = struct{}{}
	w.links = append(w.links, resolved)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
