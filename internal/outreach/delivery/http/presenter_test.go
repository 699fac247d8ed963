package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskRecipient(t *testing.T) {
	tcs := map[string]string{
		"":               "",
		"+84900000001":   "+84******001",
		"12345":          "*****",
		"an@example.com": "a*@example.com",
		"a@example.com":  "a*@example.com",
	}
	for in, want := range tcs {
		assert.Equal(t, want, maskRecipient(in), in)
	}
}
