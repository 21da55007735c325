package extractor

import "net/url"

// ExtractionResult holds the outcome of a body/title/link extraction pass
// over one parsed HTML document.
type ExtractionResult struct {
	// BodyText is the concatenation of text nodes from every non-ignored
	// element, whitespace-collapsed to single spaces.
	BodyText string
	// Title is the inner HTML of the first <title> element, if any.
	Title string
	// Links are the resolved, fragment-stripped, deduplicated, non-self
	// outgoing links discovered in <a href> attributes.
	Links []url.URL
}

// ignoredTags is reproduced verbatim from traverse.rs's IGNORED_TAGS set.
// Any element in this set, and its entire subtree, contributes no text.
var ignoredTags = map[string]struct{}{
	"style": {}, "script": {}, "noscript": {}, "svg": {}, "canvas": {},
	"meta": {}, "slot": {}, "template": {}, "head": {}, "title": {},
	"link": {}, "base": {}, "footer": {}, "header": {}, "nav": {},
	"search": {}, "img": {}, "area": {}, "audio": {}, "map": {},
	"video": {}, "embed": {}, "iframe": {}, "fencedframe": {},
	"object": {}, "picture": {}, "portal": {}, "source": {}, "math": {},
}

func isIgnoredTag(tag string) bool {
	_, ok := ignoredTags[tag]
	return ok
}
