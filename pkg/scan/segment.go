package scan

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Fixed scoreboard geometry: one stats image holds one team of five rows with
// three stat columns (kills, deaths, assists).
const (
	GridRows = 5
	GridCols = 3
)

// cellMargin is the fraction of each cell's width/height trimmed from every
// side to keep grid lines out of the OCR input.
const cellMargin = 0.1

// Cells slices a stats image into the fixed 5x3 grid of character cells in
// row-major order. Each cell is cropped with a symmetric margin.
func Cells(img image.Image) ([][]image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrExtraction)
	}
	b := img.Bounds()
	rowHeight := b.Dy() / GridRows
	colWidth := b.Dx() / GridCols
	marginW := int(cellMargin * float64(colWidth))
	marginH := int(cellMargin * float64(rowHeight))
	if colWidth-2*marginW < 1 || rowHeight-2*marginH < 1 {
		return nil, fmt.Errorf("%w: image %dx%d too small for %dx%d grid", ErrExtraction, b.Dx(), b.Dy(), GridRows, GridCols)
	}

	out := make([][]image.Image, GridRows)
	for row := 0; row < GridRows; row++ {
		out[row] = make([]image.Image, GridCols)
		for col := 0; col < GridCols; col++ {
			rect := image.Rect(
				b.Min.X+col*colWidth+marginW,
				b.Min.Y+row*rowHeight+marginH,
				b.Min.X+(col+1)*colWidth-marginW,
				b.Min.Y+(row+1)*rowHeight-marginH,
			)
			out[row][col] = imaging.Crop(img, rect)
		}
	}
	return out, nil
}
