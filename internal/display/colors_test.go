package display_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aledsdavies/flowrun/internal/display"
)

func TestColorizeRespectsFlag(t *testing.T) {
	assert.Equal(t, "hi", display.Colorize("hi", display.ColorRed, false))
	assert.Equal(t, display.ColorRed+"hi"+display.ColorReset, display.Colorize("hi", display.ColorRed, true))
}
