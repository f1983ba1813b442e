package styling

import (
	"regexp"
	"strings"
)

const (
	// NoMedia is the media key of rules without a media query
	NoMedia = "none"

	// ClassPrefix starts the debug class of every injected style node
	ClassPrefix = "vstyle--inserted--style__"

	// SelectorAttribute records the raw selector on injected style nodes
	SelectorAttribute = "data-vstyle-selector"
)

var mediaClassChars = regexp.MustCompile(`[\s:/\[\]()]+`)

// SelectorKey normalizes a selector into its registry key
func SelectorKey(selector string) string {
	return strings.ReplaceAll(selector, " ", "-")
}

// MediaKey maps the empty query to NoMedia
func MediaKey(media string) string {
	if media == "" {
		return NoMedia
	}
	return media
}

// DebugClass builds the class name used to identify a style node by eye.
// It is never used for lookups.
func DebugClass(selector, media string) string {
	key := SelectorKey(selector)
	if media == "" || media == NoMedia {
		return ClassPrefix + key
	}
	return ClassPrefix + key + mediaClassChars.ReplaceAllString(media, "-")
}
