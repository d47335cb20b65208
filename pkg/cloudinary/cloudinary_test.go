package cloudinary

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)
}

func TestBuildPublicIDKeepsExtension(t *testing.T) {
	first := buildPublicID("Week 1 Slides.PPTX")
	second := buildPublicID("Week 1 Slides.PPTX")

	require.Equal(t, ".pptx", filepath.Ext(first))
	require.NotEqual(t, first, second)
}

func TestPublicIDFromURL(t *testing.T) {
	id, err := publicIDFromURL("https://res.cloudinary.com/demo/raw/upload/v1712345678/coursehub/materials/abc.pdf")
	require.NoError(t, err)
	require.Equal(t, "coursehub/materials/abc.pdf", id)

	_, err = publicIDFromURL("uploads/abc.pdf")
	require.Error(t, err)
}
