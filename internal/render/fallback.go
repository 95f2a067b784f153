package render

import (
	"bytes"

	"github.com/fogleman/gg"
)

// FallbackImage rasterizes the fixed placeholder shown when the stored image
// cannot be fetched at render time. Same dimensions as the real image region
// so the PDF layout is unchanged.
func FallbackImage() ([]byte, error) {
	dc := gg.NewContext(int(imageWidth), int(imageHeight))

	dc.SetHexColor("#f8f9fa")
	dc.Clear()

	dc.SetRGBA255(102, 126, 234, 26)
	dc.DrawCircle(imageWidth/2, imageHeight/2, 80)
	dc.Fill()

	dc.SetHexColor("#667eea")
	dc.DrawStringAnchored("Certificate Image", imageWidth/2, 120, 0.5, 0.5)
	dc.SetHexColor("#6c757d")
	dc.DrawStringAnchored("Stored on IPFS", imageWidth/2, 150, 0.5, 0.5)
	dc.DrawStringAnchored("Image Unavailable", imageWidth/2, 180, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
