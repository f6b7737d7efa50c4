package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahms/tagcheck"
	"github.com/grahms/tagcheck/internal/cli/config"
)

func TestRenderer(t *testing.T) {
	t.Run("no escape codes off a terminal", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, config.OutputText, false)
		require.NoError(t, r.Balance("a.jsx", &tagcheck.Result{Outcome: tagcheck.Balanced, Tokens: 4}, tagcheck.DefaultRegionMarkers))
		assert.Equal(t, "Balanced a.jsx: 4 tags checked\n", buf.String())
	})

	t.Run("stack empty on close", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, config.OutputText, true)
		res := &tagcheck.Result{
			Outcome: tagcheck.StackEmptyOnClose,
			Errors:  []error{tagcheck.NewUnexpectedCloseError(tagcheck.Position{Line: 3, Column: 1}, "div")},
		}
		require.NoError(t, r.Balance("a.jsx", res, tagcheck.DefaultRegionMarkers))
		assert.Equal(t, "Error at line 3: Unexpected closing tag </div> (Stack empty)\n", buf.String())
	})

	t.Run("empty findings encode as a list", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, config.OutputJSON, false)
		require.NoError(t, r.Findings("a.jsx", "x", nil))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []any{}, got["findings"])
	})
}
