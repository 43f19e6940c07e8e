package testutil

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ParseRecorder parses the body captured by an httptest recorder.
func ParseRecorder(t testing.TB, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	return ParseHTML(t, rec.Body.Bytes())
}
