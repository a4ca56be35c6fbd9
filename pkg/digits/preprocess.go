package digits

import (
	"image"

	"github.com/disintegration/imaging"
)

// Cells coming off a washed-out screenshot OCR poorly; the trainer's data was
// normalized the same way, so inference must match. Brightness is pulled
// toward brightTarget only when the measured mean exceeds brightThreshold;
// already-dark cells are left alone.
const (
	brightThreshold = 195.0
	brightTarget    = 128.0
)

// prepare converts a cell image into the flat input vector the network
// expects: grayscale, 28x28, values scaled to [-1, 1].
func prepare(cell image.Image) []float64 {
	gray := imaging.Grayscale(cell)
	if mean := meanBrightness(gray); mean > brightThreshold {
		pct := (brightTarget - mean) / 255.0 * 100.0
		gray = imaging.AdjustBrightness(gray, pct)
	}
	gray = imaging.Resize(gray, inputSide, inputSide, imaging.Lanczos)

	pixels := make([]float64, 0, inputSize)
	for y := 0; y < inputSide; y++ {
		for x := 0; x < inputSide; x++ {
			// grayscale image: R == G == B
			v := float64(gray.NRGBAAt(x, y).R) / 255.0
			pixels = append(pixels, (v-0.5)/0.5)
		}
	}
	return pixels
}

// meanBrightness returns the mean luminance of a grayscale image in [0, 255].
func meanBrightness(img *image.NRGBA) float64 {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += float64(img.NRGBAAt(x, y).R)
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}
