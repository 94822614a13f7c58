package story

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func storyWithParagraphs(n int) string {
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("Paragraph %d about the adventure.", i+1)
	}
	return strings.Join(paragraphs, "\n\n")
}

func TestSegmentPagesExactCount(t *testing.T) {
	tests := []struct {
		name       string
		paragraphs int
		target     int
	}{
		{"fewer than target", 3, 10},
		{"equal to target", 10, 10},
		{"more than target", 14, 10},
		{"single page", 5, 1},
		{"empty story", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := SegmentPages(storyWithParagraphs(tt.paragraphs), tt.target)
			require.Len(t, pages, tt.target)
		})
	}
}

func TestSegmentPagesPadding(t *testing.T) {
	pages := SegmentPages(storyWithParagraphs(3), 10)

	for i := range 3 {
		require.Equal(t, fmt.Sprintf("Paragraph %d about the adventure.", i+1), pages[i])
	}
	for i := 3; i < 10; i++ {
		require.Empty(t, pages[i], "page %d should be padding", i)
	}
}

func TestSegmentPagesTruncation(t *testing.T) {
	pages := SegmentPages(storyWithParagraphs(14), 10)

	for i := range 10 {
		require.Equal(t, fmt.Sprintf("Paragraph %d about the adventure.", i+1), pages[i])
	}
}

func TestSegmentPagesDropsBlankParagraphs(t *testing.T) {
	text := "First paragraph.\n\n   \n\n\n\nSecond paragraph.\n\n"
	pages := SegmentPages(text, 3)

	require.Equal(t, []string{"First paragraph.", "Second paragraph.", ""}, pages)
}

func TestSegmentPagesInvalidTarget(t *testing.T) {
	require.Nil(t, SegmentPages("hello", 0))
}
