package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	ep := &url.URL{Scheme: "http", Host: "minio.local:9000"}
	assert.Equal(t,
		"http://minio.local:9000/reports/abc/EU-AI-Act-Report_AI_Chatbot.md",
		ObjectURL(ep, "reports", "abc/EU-AI-Act-Report_AI_Chatbot.md"))

	ep = &url.URL{Scheme: "https", Host: "s3.example.com"}
	assert.Equal(t, "https://s3.example.com/b/a%20b.md", ObjectURL(ep, "b", "a b.md"))
}
