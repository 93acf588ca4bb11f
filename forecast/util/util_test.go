package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndentExpand(t *testing.T) {
	testData := map[string]struct {
		indent   string
		growth   int
		expected string
	}{
		"no growth":       {indent: "  ", growth: 0, expected: ""},
		"negative growth": {indent: "  ", growth: -1, expected: ""},
		"double":          {indent: "**", growth: 2, expected: "****"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, IndentExpand(td.indent, td.growth))
		})
	}
}
