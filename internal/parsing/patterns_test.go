package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionNumber(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"RÉSOLUTION 09-35", "09-35", true},
		{"  Résolution 12-104 adoptée", "12-104", true},
		{"résolution 09-35", "09-35", true},
		{"La résolution 09-35", "", false},
		{"RÉSOLUTION 9-35", "", false},
		{"COMMENTAIRE 09-A", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ResolutionNumber(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommentNumber(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"COMMENTAIRE 09-A", "09-A", true},
		{"Commentaire 09-b : suivi", "09-B", true},
		{"COMMENTAIRE 09-AB", "", false},
		{"COMMENTAIRE 09-1", "", false},
		{"Un commentaire 09-A", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := CommentNumber(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeadingHeuristics(t *testing.T) {
	tests := []struct {
		text      string
		bold      bool
		potential bool
	}{
		{"Apiculture urbaine", true, true},
		{"Varia", false, false},
		{"Parc canin 2023", false, true},
		{"CONSIDÉRANT que la ville souhaite agir", false, false},
		{"Il est résolu d'adopter le plan", false, false},
		{"1. Apiculture urbaine", false, false},
		{"RÉSOLUTION 09-35 Apiculture", false, false},
		{"Sur une proposition de M. Jean Tremblay", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.bold, IsBoldHeading(tt.text), "bold heading")
			assert.Equal(t, tt.potential, IsPotentialTitle(tt.text), "potential title")
		})
	}
}

func TestIsSignatureNoise(t *testing.T) {
	names := append([]string{"Jean Tremblay"}, defaultSignatureNames...)

	assert.True(t, isSignatureNoise("______________________", names))
	assert.True(t, isSignatureNoise("  __ ", names))
	assert.True(t, isSignatureNoise("Présidente", names))
	assert.True(t, isSignatureNoise("Secrétaire du comité", names))
	assert.True(t, isSignatureNoise("Jean Tremblay", names))
	assert.False(t, isSignatureNoise("La présidente fait lecture du document.", names))
	assert.False(t, isSignatureNoise("IL EST RÉSOLU d'adopter le plan.", names))
}
