package tagcheck

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<form>
  <div>
    <select>
      <option>a</option>
      <div class="row">
        <button>ok</button>
      </div>
    </select>
  </div>
</form>`

func Test_AdjacentCloseFinder(t *testing.T) {
	t.Run("should find a close directly followed by another close", func(t *testing.T) {
		f, err := NewAdjacentCloseFinder("div", "select")
		require.NoError(t, err)

		got := f.Find(formPage)
		require.Len(t, got, 1)
		assert.Equal(t, 7, got[0].Line)
		assert.Equal(t, strings.Index(formPage, "</div>\n    </select>"), got[0].Offset)

		// indices [4, 10) of a ten line page
		require.Len(t, got[0].Snippet, 6)
		assert.Equal(t, 5, got[0].Snippet[0].Number)
		assert.Equal(t, 10, got[0].Snippet[5].Number)
	})

	t.Run("should report nothing when the closes are not adjacent", func(t *testing.T) {
		f, err := NewAdjacentCloseFinder("option", "select")
		require.NoError(t, err)
		assert.Empty(t, f.Find(formPage))
	})

	t.Run("should reject empty names", func(t *testing.T) {
		_, err := NewAdjacentCloseFinder("div", "")
		require.Error(t, err)
	})

	t.Run("should quote tag names", func(t *testing.T) {
		f, err := NewAdjacentCloseFinder("a.b", "c")
		require.NoError(t, err)
		assert.Empty(t, f.Find(`</aXb></c>`))
		assert.Len(t, f.Find(`</a.b> </c>`), 1)
	})
}

func Test_LineSequenceFinder(t *testing.T) {
	t.Run("should find three consecutive closing lines", func(t *testing.T) {
		f, err := NewLineSequenceFinder(DefaultLineSuffixes...)
		require.NoError(t, err)

		got := f.Find(formPage)
		require.Len(t, got, 1)
		assert.Equal(t, 6, got[0].Line)
		assert.Equal(t, []Line{
			{Number: 6, Text: "        <button>ok</button>"},
			{Number: 7, Text: "      </div>"},
			{Number: 8, Text: "    </select>"},
		}, got[0].Snippet)
		assert.Equal(t, strings.Index(formPage, "        <button>"), got[0].Offset)
	})

	t.Run("should ignore trailing whitespace and carriage returns", func(t *testing.T) {
		f, err := NewLineSequenceFinder("</a>", "</b>")
		require.NoError(t, err)
		got := f.Find("x</a>  \r\n</b>\t\r\n")
		require.Len(t, got, 1)
		assert.Equal(t, "x</a>", got[0].Snippet[0].Text)
	})

	t.Run("should require at least one suffix", func(t *testing.T) {
		_, err := NewLineSequenceFinder()
		require.Error(t, err)
	})
}

func Test_FinderFunc(t *testing.T) {
	var f Finder = FinderFunc(func(doc string) []Finding {
		return (&PatternFinder{Pattern: regexp.MustCompile(`TODO`), Window: Window{}}).Find(doc)
	})
	got := f.Find("a\nTODO\nb")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Line)
	assert.Empty(t, got[0].Snippet)
}
