// Package export implements the outbound collaborators: PNG summary
// rendering, mailto draft links, and SMTP delivery. The core hands these
// a resolved Summary and never learns about pixels or transports.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/patungan/splitbill/internal/format"
	"github.com/patungan/splitbill/internal/models"
)

// SummaryFilename is the download/attachment name for the rendered bill.
const SummaryFilename = "split_bill_summary.png"

const (
	imagePadding   = 30
	imageLineStep  = 20
	imageMinWidth  = 480
	imageMaxWidth  = 1400
	imageCharWidth = 7 // basicfont.Face7x13 advance
)

// RenderPNG rasterizes the summary into a black-on-white PNG, one line of
// text per summary line.
func RenderPNG(summary models.Summary) ([]byte, error) {
	lines := format.SummaryLines(summary)

	width := imageMinWidth
	for _, line := range lines {
		if w := imagePadding*2 + len(line)*imageCharWidth; w > width {
			width = w
		}
	}
	if width > imageMaxWidth {
		width = imageMaxWidth
	}
	height := imagePadding*2 + imageLineStep*len(lines)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(imagePadding, imagePadding+(i+1)*imageLineStep)
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}
