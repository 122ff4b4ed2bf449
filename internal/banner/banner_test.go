package banner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devopsdemo/internal/buildinfo"
)

func TestGetString(t *testing.T) {
	out := GetString()
	assert.Contains(t, out, buildinfo.String())
	assert.Contains(t, out, `|_|`)
}
