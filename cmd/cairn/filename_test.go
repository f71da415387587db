package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	now := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
	tests := map[string]string{
		"https://www.example.com/":                  "2023-04-05-060708-example-com.html",
		"https://www.example.com":                   "2023-04-05-060708-example-com.html",
		"https://blog.example.com/2023/post.html":   "2023-04-05-060708-blog-example-com-2023-post.html",
		"http://example.com:8080/a/b/index.htm":     "2023-04-05-060708-example-com-a-b-index.html",
		"https://example.com/docs/?q=1#section":     "2023-04-05-060708-example-com-docs.html",
		"not a url":                                 "2023-04-05-060708.html",
		"https://www.wikipedia.org/wiki/Go_(lang)/": "2023-04-05-060708-wikipedia-org-wiki-Go_(lang).html",
	}
	for rawURL, want := range tests {
		assert.Equal(t, want, fileName(rawURL, now), rawURL)
	}
}
