package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstPage(t *testing.T) {
	assert.Equal(t, "shine\nrelevé de compte", FirstPage("Shine\r\nRelevé de COMPTE"))

	var b strings.Builder
	for i := 0; i < DetectLines; i++ {
		b.WriteString("line\n")
	}
	b.WriteString("Qonto\n")
	page := FirstPage(b.String())
	assert.NotContains(t, page, "qonto", "lines past the first page are not looked at")
	assert.Equal(t, DetectLines, strings.Count(page, "line"))
}
