package parsing

import (
	"testing"

	"github.com/jonathan/committee-minutes/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Blocks(t *testing.T) {
	html := "<h1>Environnement</h1>\n" +
		"<p><strong>Gestion des matières résiduelles</strong></p>\n" +
		"<p>Texte <strong>partiellement</strong> gras</p>\n" +
		"<h2>Sous-titre</h2>\n" +
		"<ol>\n<li>Ouverture</li>\n<li>Adoption</li>\n</ol>\n"

	doc, err := Normalize(html)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 6)

	assert.Equal(t, types.TextBlock{Kind: types.BlockHeading, Tag: "h1", Text: "Environnement"}, doc.Blocks[0])
	assert.Equal(t, types.BlockParagraph, doc.Blocks[1].Kind)
	assert.True(t, doc.Blocks[1].Emphasized)
	assert.False(t, doc.Blocks[2].Emphasized)
	assert.Equal(t, "Texte partiellement gras", doc.Blocks[2].Text)
	assert.Equal(t, types.BlockParagraph, doc.Blocks[3].Kind, "only h1 counts as a section heading")
	assert.Equal(t, "h2", doc.Blocks[3].Tag)
	assert.Equal(t, types.BlockListItem, doc.Blocks[4].Kind)

	assert.Equal(t, [][]string{{"Ouverture", "Adoption"}}, doc.OrderedLists)
	assert.Contains(t, doc.Text, "Environnement\n")
	assert.Contains(t, doc.Text, "Ouverture\nAdoption")
}

func TestNormalize_LineBreaksAndInvisibles(t *testing.T) {
	doc, err := Normalize("<p>Ligne\u200b\u00a01<br />Ligne 2</p>\n")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	assert.Equal(t, "Ligne 1\nLigne 2", doc.Blocks[0].Text)
	assert.Contains(t, doc.Text, "Ligne 1\nLigne 2")
}

func TestNormalize_Emphasis(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"single strong", "<p><strong>Parc canin</strong></p>", true},
		{"split strong", "<p><strong>Parc</strong> <b>canin</b></p>", true},
		{"nested strong", "<p><strong>Parc <b>canin</b></strong></p>", true},
		{"partial", "<p><strong>Parc</strong> canin</p>", false},
		{"none", "<p>Parc canin</p>", false},
		{"empty", "<p><strong> </strong></p>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Normalize(tt.html)
			require.NoError(t, err)
			require.Len(t, doc.Blocks, 1)
			assert.Equal(t, tt.want, doc.Blocks[0].Emphasized)
		})
	}
}

func TestNormalize_OrderedListsKeepDirectItems(t *testing.T) {
	html := "<ol><li>Un<ol><li>Un.a</li></ol></li><li>Deux</li></ol><ul><li>Puce</li></ul>"

	doc, err := Normalize(html)
	require.NoError(t, err)

	require.Len(t, doc.OrderedLists, 2)
	assert.Len(t, doc.OrderedLists[0], 2)
	assert.Equal(t, []string{"Un.a"}, doc.OrderedLists[1])
}

func TestStripInvisible(t *testing.T) {
	assert.Equal(t, "ab c", StripInvisible("a\u200bb\u00a0c"))
	assert.Equal(t, "a\tb\n", StripInvisible("\ufeffa\tb\n"))
}
