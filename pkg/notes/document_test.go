package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudgeapp/nudge/pkg/wire"
)

func parseRoot(t *testing.T, raw []byte) *wire.Message {
	t.Helper()
	m, err := wire.Parse(raw)
	require.NoError(t, err)
	return m
}

func docText(t *testing.T, doc *wire.Message) string {
	t.Helper()
	v, ok := doc.Get(2)
	require.True(t, ok)
	text, ok := v.Text()
	require.True(t, ok)
	return text
}

func TestFindDocumentNewestLayout(t *testing.T) {
	doc := bytesField(2, []byte("hello"))
	root := parseRoot(t, bytesField(2, bytesField(3, doc)))

	found, ok := FindDocument(root)
	require.True(t, ok)
	assert.Equal(t, "hello", docText(t, found))
}

func TestFindDocumentOlderLayout(t *testing.T) {
	doc := bytesField(2, []byte("older"))
	root := parseRoot(t, bytesField(2, bytesField(2, doc)))

	found, ok := FindDocument(root)
	require.True(t, ok)
	assert.Equal(t, "older", docText(t, found))
}

func TestFindDocumentFlatLayout(t *testing.T) {
	doc := bytesField(2, []byte("flat"))
	root := parseRoot(t, bytesField(2, doc))

	found, ok := FindDocument(root)
	require.True(t, ok)
	assert.Equal(t, "flat", docText(t, found))
}

func TestFindDocumentPrefersNewestLayout(t *testing.T) {
	wrapper := bytesField(3, bytesField(2, []byte("new")))
	wrapper = append(wrapper, bytesField(2, bytesField(2, []byte("old")))...)
	root := parseRoot(t, bytesField(2, wrapper))

	found, ok := FindDocument(root)
	require.True(t, ok)
	assert.Equal(t, "new", docText(t, found))
}

func TestFindDocumentRunsOnlyDocument(t *testing.T) {
	// A document exposing only attribute runs (field 5) still counts.
	doc := bytesField(5, plainRun(3))
	root := parseRoot(t, bytesField(2, bytesField(3, doc)))

	_, ok := FindDocument(root)
	assert.True(t, ok)
}

func TestFindDocumentNoMatch(t *testing.T) {
	// Root without field 2 at all.
	root := parseRoot(t, varintField(1, 9))
	_, ok := FindDocument(root)
	assert.False(t, ok)

	// Root field 2 is numeric, not a nested message.
	root = parseRoot(t, varintField(2, 9))
	_, ok = FindDocument(root)
	assert.False(t, ok)

	// Wrapper exists but nothing inside looks like a document.
	root = parseRoot(t, bytesField(2, varintField(7, 1)))
	_, ok = FindDocument(root)
	assert.False(t, ok)
}
