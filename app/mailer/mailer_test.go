package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	markdown := "# Heading\n\nSome *emphasis* text.\n\n- first\n- second\n"

	html, err := RenderHTML(markdown)
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.Contains(t, html, "<li>first</li>")
}

func TestRenderHTMLTable(t *testing.T) {
	markdown := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	html, err := RenderHTML(markdown)
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
}

func TestSendMarkdownRejectsInvalidSender(t *testing.T) {
	m := New("not-an-address", "password")

	err := m.SendMarkdown("subject", "body", []string{"dest@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender")
}

func TestSendMarkdownRejectsInvalidRecipient(t *testing.T) {
	m := New("sender@example.com", "password")

	err := m.SendMarkdown("subject", "body", []string{"not-an-address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient")
}
