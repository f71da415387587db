package cairn

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
)

const testDocHTML = `
<html>
<head>
	<title> Hello Test </title>
	<meta name="description" content="this is a test doc and i am a description">
	<link rel="canonical" href="https://www.example.com/damen/kleider">
	<link rel="prev" href="/herren/jacken">
</head>
<body>
<h1>h1-0</h1>
</body>
</html>
`

func TestExtract(t *testing.T) {
	s, errExtract := ExtractStructure(testDocHTML)
	assert.NoError(t, errExtract)
	t.Log(spew.Sdump(s))
	assert.Equal(t, "Hello Test", s.Title)
	assert.Equal(t, "this is a test doc and i am a description", s.Description)
	assert.Equal(t, "https://www.example.com/damen/kleider", s.Canonical)
}

func TestExtractOpenGraphDescription(t *testing.T) {
	s, errExtract := ExtractStructure(`<html><head><meta property="og:description" content="og"></head></html>`)
	assert.NoError(t, errExtract)
	assert.Equal(t, "og", s.Description)
}

func TestExtractEmpty(t *testing.T) {
	s, errExtract := ExtractStructure(``)
	assert.NoError(t, errExtract)
	assert.Empty(t, s.Title)
	assert.Empty(t, s.Canonical)
}
