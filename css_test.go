package cairn

import (
	"context"
	"regexp"
	"testing"

	"github.com/foomo/cairn/vo"
	"github.com/stretchr/testify/assert"
)

func TestCSSInlining(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{
		"http://h/f.ico": {contentType: "image/x-icon", body: []byte{0, 0, 1, 0}},
	})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	css, outcomes := in.CSS(context.Background(), `background-image:url('http://h/f.ico')`, "http://h/")
	assert.Regexp(t, regexp.MustCompile(`^background-image:url\(data:.+;base64,.+\)$`), css)
	assert.Contains(t, css, "background-image:url")
	assert.Equal(t, 1, outcomes.Count(vo.OutcomeInlined))
}

func TestCSSQuoting(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{
		"http://h/a.png": pngAsset(),
		"http://h/b.png": pngAsset(),
		"http://h/c.png": pngAsset(),
	})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	css, outcomes := in.CSS(context.Background(),
		`a{background:url("a.png")} b{background:URL( 'b.png' )} c{background:url(c.png)}`,
		"http://h/",
	)
	assert.NotContains(t, css, ".png")
	assert.Contains(t, css, "URL(data:image/png;base64,")
	assert.Equal(t, 3, outcomes.Count(vo.OutcomeInlined))
}

func TestCSSDedupWithinBlock(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{"http://h/img/bg.png": pngAsset()})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	css, outcomes := in.CSS(context.Background(),
		`a{background:url(img/bg.png)} b{background:url(img/bg.png)}`,
		"http://h/",
	)
	assert.NotContains(t, css, "img/bg.png")
	assert.Equal(t, 1, fetcher.count("http://h/img/bg.png"))
	assert.Len(t, outcomes, 1)

	// no cache across blocks
	_, _ = in.CSS(context.Background(), `a{background:url(img/bg.png)}`, "http://h/")
	assert.Equal(t, 2, fetcher.count("http://h/img/bg.png"))
}

func TestCSSLeavesFailuresUntouched(t *testing.T) {
	in := NewInliner(newTestFetcher(nil), WithLogger(discardLogger()))
	const source = `a{background:url("missing.png")} b{background:url(data:image/gif;base64,R0lG)}`
	css, outcomes := in.CSS(context.Background(), source, "http://h/")
	assert.Equal(t, source, css)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, vo.ReasonFetchFailed, outcomes[0].Reason)
	assert.Equal(t, "http://h/missing.png", outcomes[0].URL)
}

func TestCSSMalformed(t *testing.T) {
	fetcher := newTestFetcher(map[string]testAsset{"http://h/a.png": pngAsset()})
	in := NewInliner(fetcher, WithLogger(discardLogger()))
	css, _ := in.CSS(context.Background(), `a{{background:url(a.png);;} }}} url(`, "http://h/")
	assert.Contains(t, css, "url(data:image/png;base64,")
	assert.Contains(t, css, "}}} url(")
}

func TestCSSEmpty(t *testing.T) {
	css, outcomes := NewInliner(newTestFetcher(nil)).CSS(context.Background(), "", "http://h/")
	assert.Empty(t, css)
	assert.Empty(t, outcomes)
}
