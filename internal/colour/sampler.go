package colour

// DefaultStride is the default sampling step along each axis.
const DefaultStride = 4

// PixelGrid is a rectangular buffer of pixels. Alpha, if the underlying
// source has any, is ignored.
type PixelGrid interface {
	Width() int
	Height() int
	// RGBAt returns the pixel at (x, y) where 0 <= x < Width() and
	// 0 <= y < Height().
	RGBAt(x, y int) RGB
}

// Grid is an in-memory PixelGrid stored in row-major order.
type Grid struct {
	W, H int
	Pix  []RGB
}

// NewGrid creates a black grid of the given size.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{W: width, H: height, Pix: make([]RGB, width*height)}
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.W }

// Height returns the grid height.
func (g *Grid) Height() int { return g.H }

// RGBAt returns the pixel at (x, y).
func (g *Grid) RGBAt(x, y int) RGB { return g.Pix[y*g.W+x] }

// Set sets the pixel at (x, y).
func (g *Grid) Set(x, y int, c RGB) { g.Pix[y*g.W+x] = c }

// Fill sets every pixel in the half-open rectangle [x0, x1) x [y0, y1).
func (g *Grid) Fill(x0, y0, x1, y1 int, c RGB) {
	for y := max(y0, 0); y < min(y1, g.H); y++ {
		for x := max(x0, 0); x < min(x1, g.W); x++ {
			g.Set(x, y, c)
		}
	}
}

// Sample takes every stride-th pixel along each axis, starting at (0, 0),
// scanning rows top to bottom and pixels left to right within a row.
// The result has ceil(W/stride) * ceil(H/stride) entries. A stride below 1
// samples every pixel.
func Sample(grid PixelGrid, stride int) []RGB {
	if grid == nil {
		return nil
	}
	stride = max(stride, 1)
	width, height := grid.Width(), grid.Height()
	if width <= 0 || height <= 0 {
		return []RGB{}
	}

	cols := (width + stride - 1) / stride
	rows := (height + stride - 1) / stride
	pixels := make([]RGB, 0, cols*rows)
	for y := 0; y < height; y += stride {
		for x := 0; x < width; x += stride {
			pixels = append(pixels, grid.RGBAt(x, y))
		}
	}
	return pixels
}
