package internal

// Display is the 64x32 monochrome screen, indexed [x][y]. A true value is a
// lit pixel.
type Display [ScreenWidth][ScreenHeight]bool

// Pixel reports whether the pixel at x, y is lit. Coordinates outside the
// screen are unlit.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return d[x][y]
}

// Clear unlights every pixel.
func (d *Display) Clear() {
	*d = Display{}
}

// DrawSprite XORs an 8 pixel wide sprite onto the display. The origin wraps
// around the screen, rows and columns that run past the right or bottom edge
// are clipped. It returns whether any lit pixel was turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	originX := int(x) % ScreenWidth
	originY := int(y) % ScreenHeight
	collision := false

	for row, spriteByte := range sprite {
		py := originY + row
		if py >= ScreenHeight {
			break
		}
		for bit := 0; bit < 8; bit++ {
			px := originX + bit
			if px >= ScreenWidth {
				break
			}
			if spriteByte&(0x80>>bit) == 0 {
				continue
			}
			if d[px][py] {
				collision = true
			}
			d[px][py] = !d[px][py]
		}
	}
	return collision
}

// Lit returns the number of lit pixels.
func (d *Display) Lit() int {
	n := 0
	for x := 0; x < ScreenWidth; x++ {
		for y := 0; y < ScreenHeight; y++ {
			if d[x][y] {
				n++
			}
		}
	}
	return n
}
