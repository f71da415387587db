package cairn

import (
	"context"
	"net/http"
	"testing"

	"github.com/foomo/cairn/vo"
	"github.com/stretchr/testify/assert"
)

func TestTextStylesheetResolvesAgainstItsOwnURL(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{
		"http://h/css/site.css": textAsset("text/css; charset=utf-8", `body{background:url(../img/bg.png)}`),
		"http://h/img/bg.png":   pngAsset(),
	})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	o, nested := in.Text(context.Background(), "stylesheet", "/css/site.css", "http://h/page/")
	assert.True(t, o.IsInlined())
	assert.Contains(t, o.Data, "background:url(data:image/png;base64,")
	assert.Equal(t, 1, fetcher.count("http://h/img/bg.png"))
	assert.Len(t, nested, 1)
	assert.Equal(t, "css", nested[0].Source)
}

func TestTextScriptVerbatim(t *testing.T) {
	const script = `var u = "url(x.png)";`
	fetcher := newTestFetcher(map[string]testAsset{
		"http://h/app.js": textAsset("application/javascript", script),
	})
	o, nested := NewInliner(fetcher, WithLogger(discardLogger())).Text(context.Background(), "script", "app.js", "http://h/")
	assert.True(t, o.IsInlined())
	assert.Equal(t, script, o.Data)
	assert.Empty(t, nested)
	assert.Equal(t, 0, fetcher.count("http://h/x.png"))
}

func TestTextFailures(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{
		"http://h/500.css": {contentType: "text/css", status: http.StatusInternalServerError, body: []byte("a{}")},
	})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	tests := []struct {
		reference string
		reason    vo.Reason
	}{
		{"", vo.ReasonSkipped},
		{"data:text/css,a{}", vo.ReasonSkipped},
		{"/missing.css", vo.ReasonFetchFailed},
		{"/500.css", vo.ReasonBadStatus},
	}
	for _, test := range tests {
		o, _ := in.Text(context.Background(), "stylesheet", test.reference, "http://h/")
		assert.Equal(t, test.reason, o.Reason, test.reference)
		assert.Empty(t, o.Data, test.reference)
	}
}

func TestIsCSS(t *testing.T) {
	assert.True(t, isCSS("text/css"))
	assert.True(t, isCSS("Text/CSS; charset=utf-8"))
	assert.False(t, isCSS("text/plain"))
	assert.False(t, isCSS(""))
}
