package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traek/traek-go/pkg/domain"
	"github.com/traek/traek-go/pkg/search"
)

func TestNodes(t *testing.T) {
	nodes := []*domain.Node{
		{ID: "a", Content: "Hello World"},
		{ID: "b", Content: "goodbye"},
		{ID: "c", Content: "HELLO again"},
		{ID: "d"}, // custom-rendered, no content
	}

	t.Run("case-insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, search.Nodes(nodes, "hello"))
		assert.Equal(t, []string{"a"}, search.Nodes(nodes, "WORLD"))
	})

	t.Run("query is trimmed", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, search.Nodes(nodes, "  hello  "))
	})

	t.Run("blank query matches nothing", func(t *testing.T) {
		assert.Nil(t, search.Nodes(nodes, ""))
		assert.Nil(t, search.Nodes(nodes, "   "))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Nil(t, search.Nodes(nodes, "zzz"))
	})
}

func TestRanges(t *testing.T) {
	t.Run("finds every occurrence", func(t *testing.T) {
		spans := search.Ranges("abcabcabc", "abc")
		assert.Equal(t, []search.Range{{0, 3}, {3, 6}, {6, 9}}, spans)
	})

	t.Run("matches do not overlap", func(t *testing.T) {
		// "aaa" contains "aa" at 0 and 1, but the second overlaps.
		spans := search.Ranges("aaa", "aa")
		assert.Equal(t, []search.Range{{0, 2}}, spans)
	})

	t.Run("case folding", func(t *testing.T) {
		spans := search.Ranges("Go and GO and go", "go")
		assert.Equal(t, []search.Range{{0, 2}, {7, 9}, {14, 16}}, spans)
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Nil(t, search.Ranges("anything", " "))
	})
}

func TestHighlight(t *testing.T) {
	t.Run("wraps matches in mark tags", func(t *testing.T) {
		got := search.Highlight("say hello twice: hello", "hello")
		want := `say <mark class="search-highlight">hello</mark> twice: <mark class="search-highlight">hello</mark>`
		assert.Equal(t, want, got)
	})

	t.Run("escapes literal text", func(t *testing.T) {
		got := search.Highlight(`<b>bold</b> & "quoted"`, "bold")
		want := `&lt;b&gt;<mark class="search-highlight">bold</mark>&lt;/b&gt; &amp; &quot;quoted&quot;`
		assert.Equal(t, want, got)
	})

	t.Run("escapes matched text too", func(t *testing.T) {
		got := search.Highlight("a<b", "a<b")
		assert.Equal(t, `<mark class="search-highlight">a&lt;b</mark>`, got)
	})

	t.Run("no match escapes everything", func(t *testing.T) {
		assert.Equal(t, "a &amp; b", search.Highlight("a & b", "zzz"))
	})
}
