package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayDrawSprite(t *testing.T) {
	var d Display

	collision := d.DrawSprite(0, 0, []byte{0xF0})
	assert.False(t, collision)
	for x := 0; x < 4; x++ {
		assert.True(t, d.Pixel(x, 0))
	}
	assert.Equal(t, 4, d.Lit())

	collision = d.DrawSprite(0, 0, []byte{0xF0})
	assert.True(t, collision)
	assert.Equal(t, 0, d.Lit())
}

func TestDisplayPartialOverlap(t *testing.T) {
	var d Display

	d.DrawSprite(0, 0, []byte{0xC0})
	collision := d.DrawSprite(1, 0, []byte{0xC0})

	assert.True(t, collision)
	assert.True(t, d.Pixel(0, 0))
	assert.False(t, d.Pixel(1, 0))
	assert.True(t, d.Pixel(2, 0))
}

func TestDisplayOriginWraps(t *testing.T) {
	var d Display

	d.DrawSprite(ScreenWidth+2, ScreenHeight+3, []byte{0x80})

	assert.True(t, d.Pixel(2, 3))
	assert.Equal(t, 1, d.Lit())
}

func TestDisplayClipsAtEdges(t *testing.T) {
	var d Display

	d.DrawSprite(60, 30, []byte{0xFF, 0xFF, 0xFF, 0xFF})

	// 4 columns and 2 rows fit, the rest is clipped rather than wrapped
	assert.Equal(t, 8, d.Lit())
	assert.True(t, d.Pixel(63, 31))
	assert.False(t, d.Pixel(0, 30))
	assert.False(t, d.Pixel(60, 0))
}

func TestDisplayPixelOutOfBounds(t *testing.T) {
	var d Display
	d.DrawSprite(0, 0, []byte{0x80})

	assert.False(t, d.Pixel(-1, 0))
	assert.False(t, d.Pixel(0, ScreenHeight))
	assert.False(t, d.Pixel(ScreenWidth, 0))
}

func TestDisplayClear(t *testing.T) {
	var d Display
	d.DrawSprite(5, 5, []byte{0xFF, 0xFF})

	d.Clear()
	assert.Equal(t, 0, d.Lit())
}
