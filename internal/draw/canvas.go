package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is an intensity raster with 2x vertical resolution using half-block
// characters. Each terminal cell holds two sub-pixels (top and bottom).
// Drawing happens in logical coordinates which are scaled to sub-pixels.
//
// Canvas implements field.Surface.
type Canvas struct {
	termWidth      int       // Actual terminal columns
	termHeight     int       // Actual terminal rows
	subPixelHeight int       // termHeight * 2
	pixels         []float64 // Flat slice: [y * termWidth + x], intensity in [0, 1]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	palette *Palette

	// Last rendered colours per cell; cells that did not change are skipped.
	prev        []cellColors
	forceRedraw bool

	renderBuf strings.Builder
	numBuf    [20]byte
}

type cellColors struct {
	top, bottom RGB
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// mapping from logical units to sub-pixels.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the field.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		palette:       DefaultPalette(),
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]float64, subPixelHeight*termWidth)
		c.prev = make([]cellColors, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.forceRedraw = true
	}

	c.palette.resize(termWidth, subPixelHeight)
	c.updateScale()
}

// SetLogicalSize changes the logical coordinate space mapped onto the canvas.
func (c *Canvas) SetLogicalSize(logicalWidth, logicalHeight float64) {
	c.logicalWidth = logicalWidth
	c.logicalHeight = logicalHeight
	c.updateScale()
}

func (c *Canvas) updateScale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetPalette replaces the colour palette and forces a full redraw.
func (c *Canvas) SetPalette(p *Palette) {
	c.palette = p
	c.palette.resize(c.termWidth, c.subPixelHeight)
	c.forceRedraw = true
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Intensity returns the intensity of the sub-pixel at (x, y), 0 outside.
func (c *Canvas) Intensity(x, y int) float64 {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// blend composites white at alpha over a sub-pixel (source-over).
func (c *Canvas) blend(x, y int, alpha float64) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	i := &c.pixels[y*c.termWidth+x]
	*i += alpha * (1 - *i)
}

// FillCircle composites a filled circle at logical (x, y) with logical
// radius r. Circles smaller than a sub-pixel still light the sub-pixel under
// their centre.
func (c *Canvas) FillCircle(x, y, r, alpha float64) {
	if alpha <= 0 || !finite(x, y, r) {
		return
	}
	alpha = min(alpha, 1)

	cx, cy := x*c.scaleX, y*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY

	lit := false
	if rx > 0 && ry > 0 {
		x0, x1 := int(math.Floor(cx-rx)), int(math.Ceil(cx+rx))
		y0, y1 := int(math.Floor(cy-ry)), int(math.Ceil(cy+ry))
		for py := y0; py <= y1; py++ {
			ny := (float64(py) + 0.5 - cy) / ry
			for px := x0; px <= x1; px++ {
				nx := (float64(px) + 0.5 - cx) / rx
				if nx*nx+ny*ny <= 1 {
					c.blend(px, py, alpha)
					lit = true
				}
			}
		}
	}
	if !lit {
		c.blend(int(math.Floor(cx)), int(math.Floor(cy)), alpha)
	}
}

// StrokeLine composites a line between two logical points using Bresenham's
// algorithm. Widths thinner than a sub-pixel draw a one sub-pixel line;
// wider strokes use a square brush.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, width, alpha float64) {
	if alpha <= 0 || !finite(x1, y1, x2, y2) {
		return
	}
	alpha = min(alpha, 1)

	px1 := int(math.Floor(x1 * c.scaleX))
	py1 := int(math.Floor(y1 * c.scaleY))
	px2 := int(math.Floor(x2 * c.scaleX))
	py2 := int(math.Floor(y2 * c.scaleY))

	brush := 0
	if w := width * min(c.scaleX, c.scaleY); w > 1 {
		brush = int(math.Round(w)) / 2
	}

	dx := abs(px2 - px1)
	dy := abs(py2 - py1)

	sx := 1
	if px1 > px2 {
		sx = -1
	}
	sy := 1
	if py1 > py2 {
		sy = -1
	}

	err := dx - dy

	for {
		for by := -brush; by <= brush; by++ {
			for bx := -brush; bx <= brush; bx++ {
				c.blend(px1+bx, py1+by, alpha)
			}
		}

		if px1 == px2 && py1 == py2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			px1 += sx
		}
		if e2 < dx {
			err += dx
			py1 += sy
		}
	}
}

// Render outputs the canvas to the writer as 24-bit colour half-block cells.
// Only cells whose colours changed since the previous Render are written.
// After a write error the next Render redraws every cell.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	var last cellColors
	haveLast := false
	nextCol, nextRow := -1, -1

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cell := c.cellAt(col, row)
			idx := row*c.termWidth + col
			if !c.forceRedraw && c.prev[idx] == cell {
				continue
			}
			c.prev[idx] = cell

			if col != nextCol || row != nextRow {
				c.writeCursor(col, row)
			}
			if !haveLast || cell.top != last.top {
				c.writeColor(38, cell.top)
			}
			if !haveLast || cell.bottom != last.bottom {
				c.writeColor(48, cell.bottom)
			}
			c.renderBuf.WriteRune(BlockUpperHalf)

			last, haveLast = cell, true
			nextCol, nextRow = col+1, row
		}
	}
	c.forceRedraw = false

	if !haveLast {
		return nil
	}
	c.renderBuf.WriteString(styleReset)

	if _, err := io.WriteString(w, c.renderBuf.String()); err != nil {
		c.forceRedraw = true
		return err
	}
	return nil
}

// Blit calls fn for every cell with its top and bottom colours. Used by hosts
// that do their own cell diffing.
func (c *Canvas) Blit(fn func(col, row int, top, bottom RGB)) {
	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cell := c.cellAt(col, row)
			fn(col, row, cell.top, cell.bottom)
		}
	}
}

func (c *Canvas) cellAt(col, row int) cellColors {
	top, bottom := row*2, row*2+1
	return cellColors{
		top:    c.palette.Shade(col, top, c.pixels[top*c.termWidth+col]),
		bottom: c.palette.Shade(col, bottom, c.pixels[bottom*c.termWidth+col]),
	}
}

func (c *Canvas) writeCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends an SGR truecolor sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) writeColor(layer int, rgb RGB) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb.B), 10))
	c.renderBuf.WriteByte('m')
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// TerminalToLogical converts a 0-based terminal cell (relative to the canvas
// origin) to the logical coordinates of its centre.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.scaleX > 0 {
		x = (float64(col) + 0.5) / c.scaleX
	}
	if c.scaleY > 0 {
		y = (float64(row)*2 + 1) / c.scaleY
	}
	return x, y
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
