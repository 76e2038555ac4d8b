package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_WriteSummary(t *testing.T) {
	c := NewCollector()
	c.Add("symbol %s has no type", "_text")
	c.Add("%d symbols reference missing types, %d unique types are missing", 3, 2)

	var buf bytes.Buffer
	c.WriteSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "warning: symbol _text has no type")
	assert.Contains(t, out, "2 warning(s) collected")
}

func TestCollector_EmptyProducesNoTotal(t *testing.T) {
	c := NewCollector()
	var buf bytes.Buffer
	c.WriteSummary(&buf)
	assert.Empty(t, buf.String())
}
