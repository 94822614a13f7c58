package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

func TestComposeDesignDocumentOrdering(t *testing.T) {
	doc := ComposeDesignDocument("M", []schema.CharacterProfile{
		{Name: "A", Profile: "PA"},
		{Name: "B", Profile: "PB"},
	})

	iMain := strings.Index(doc, "M")
	iA := strings.Index(doc, "PA")
	iB := strings.Index(doc, "PB")
	iTrailer := strings.Index(doc, "CONSISTENCY RULE:")

	require.GreaterOrEqual(t, iMain, 0)
	require.Greater(t, iA, iMain)
	require.Greater(t, iB, iA)
	require.Greater(t, iTrailer, iB)
	require.Contains(t, doc, "SECONDARY CHARACTERS")
}

func TestComposeDesignDocumentNoSecondaries(t *testing.T) {
	doc := ComposeDesignDocument("Main profile text", nil)

	require.Contains(t, doc, "Main profile text")
	require.NotContains(t, doc, "SECONDARY CHARACTERS")
	require.Contains(t, doc, "CONSISTENCY RULE:")
}

func TestComposeDesignDocumentNamePrefix(t *testing.T) {
	doc := ComposeDesignDocument("M", []schema.CharacterProfile{
		{Name: "Oliver", Profile: "A round little owl with amber eyes."},
		{Name: "Pip", Profile: "Pip is a small gray rabbit."},
	})

	// Name is prepended only when the profile text doesn't already carry it.
	require.Contains(t, doc, "Oliver: A round little owl")
	require.NotContains(t, doc, "Pip: Pip is")
}
