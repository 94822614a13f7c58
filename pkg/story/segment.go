package story

import (
	"regexp"
	"strings"
)

var blankLineRX = regexp.MustCompile(`\n{2,}`)

// SegmentPages splits story text on blank lines into exactly target pages.
// Extra paragraphs are dropped from the end; missing ones are padded with
// empty strings so the result always has length target.
func SegmentPages(storyText string, target int) []string {
	if target < 1 {
		return nil
	}

	var paragraphs []string
	for _, p := range blankLineRX.Split(storyText, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	pages := make([]string, target)
	copy(pages, paragraphs)
	return pages
}
