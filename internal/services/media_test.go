package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaResolverURL(t *testing.T) {
	m, err := NewMediaResolver("https://cdn.example.com/media")
	require.NoError(t, err)

	assert.Nil(t, m.URL(nil))
	assert.Nil(t, m.URL(strPtr("")))
	assert.Equal(t, "https://cdn.example.com/media/uploads/cat.png", *m.URL(strPtr("uploads/cat.png")))
	assert.Equal(t, "https://cdn.example.com/media/uploads/cat.png", *m.URL(strPtr("/uploads/cat.png")))
	assert.Equal(t, "https://elsewhere.example.com/x.png", *m.URL(strPtr("https://elsewhere.example.com/x.png")))
}
