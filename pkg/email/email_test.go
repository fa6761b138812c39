package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCodeMessageEscapesAndIncludesCode(t *testing.T) {
	msg, err := ResetCodeMessage("a@b.io", "<script>", "AB12CD3", "https://app.example.com")
	require.NoError(t, err)

	assert.Equal(t, "a@b.io", msg.To)
	assert.Contains(t, msg.HTML, "AB12CD3")
	assert.Contains(t, msg.HTML, "https://app.example.com/reset-password")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "AB12CD3")
}

func TestBuildMessageHasBothParts(t *testing.T) {
	raw := buildMessage("from@x.io", "to@x.io", "Hi", "<p>html</p>", "plain")

	assert.True(t, strings.HasPrefix(raw, "From: from@x.io\r\n"))
	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "<p>html</p>")
	assert.True(t, strings.HasSuffix(raw, "--"+boundary+"--\r\n"))
}

func TestLayoutWrapsContent(t *testing.T) {
	out, err := renderLayout("<b>hello</b>")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>hello</b>")
	assert.Contains(t, out, "Course Marketplace")
}

func TestSendWithoutHostFails(t *testing.T) {
	err := NewClient(Config{}).Send(context.Background(), TestMessage("a@b.io"))
	assert.Error(t, err)
}
