// Package render synthesizes the certificate PDF. The layout is fixed: page
// background, double border, image section, title block, details box, and a
// verification footer. Image problems degrade to placeholders instead of
// failing the document.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"

	"certchain/pkg/domainerrors"
)

// Data is the reconciled record the renderer lays out.
type Data struct {
	CertificateID string
	StudentName   string
	Issuer        string
	IssueDate     string
	ImageRef      string
}

const (
	imageWidth  = 400.0
	imageHeight = 300.0
)

// Certificate renders the PDF. imageBytes may be nil (no image was stored) or
// corrupt (a placeholder region is drawn); neither aborts the document.
func Certificate(data Data, imageBytes []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Background and the two border rectangles.
	pdf.SetFillColor(248, 249, 250)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetDrawColor(44, 62, 80)
	pdf.SetLineWidth(2)
	pdf.Rect(20, 20, pageW-40, pageH-40, "D")
	pdf.SetLineWidth(3)
	pdf.Rect(40, 40, pageW-80, pageH-80, "D")

	y := 60.0

	if imageBytes != nil {
		pdf.SetTextColor(44, 62, 80)
		pdf.SetFont("Helvetica", "B", 20)
		centered(pdf, pageW, y, "CERTIFICATE IMAGE")
		y += 40

		imageX := (pageW - imageWidth) / 2
		if imgType, ok := embeddableType(imageBytes); ok {
			opts := gofpdf.ImageOptions{ImageType: imgType}
			pdf.RegisterImageOptionsReader("certificate-image", opts, bytes.NewReader(imageBytes))
			pdf.ImageOptions("certificate-image", imageX, y, imageWidth, imageHeight, false, opts, 0, "")
		} else {
			// Corrupt or unsupported bytes: draw an outlined placeholder
			// region where the image would have been.
			pdf.SetDrawColor(108, 117, 125)
			pdf.SetLineWidth(1)
			pdf.Rect(imageX, y, imageWidth, imageHeight, "D")
			pdf.SetTextColor(108, 117, 125)
			pdf.SetFont("Helvetica", "", 14)
			centered(pdf, pageW, y+imageHeight/2, "Image could not be displayed")
		}
		y += imageHeight + 40
	} else {
		pdf.SetTextColor(108, 117, 125)
		pdf.SetFont("Helvetica", "", 16)
		centered(pdf, pageW, y+100, "No Certificate Image Available")
		y += 180
	}

	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 24)
	centered(pdf, pageW, y, "CERTIFICATE OF ACHIEVEMENT")
	y += 50

	pdf.SetTextColor(52, 73, 94)
	pdf.SetFont("Helvetica", "", 16)
	centered(pdf, pageW, y, "This is to certify that")
	y += 40

	pdf.SetTextColor(231, 76, 60)
	pdf.SetFont("Helvetica", "B", 24)
	centered(pdf, pageW, y, data.StudentName)
	y += 50

	pdf.SetTextColor(52, 73, 94)
	pdf.SetFont("Helvetica", "", 14)
	centered(pdf, pageW, y, "has successfully completed all requirements and demonstrated exceptional")
	y += 25
	centered(pdf, pageW, y, "performance in the prescribed course of study.")
	y += 50

	drawDetailsBox(pdf, pageW, y, data)

	pdf.SetTextColor(39, 174, 96)
	pdf.SetFont("Helvetica", "B", 12)
	centered(pdf, pageW, pageH-60, "VERIFIED ON HYPERLEDGER FABRIC BLOCKCHAIN")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeRender, "pdf generation failed", err)
	}
	return buf.Bytes(), nil
}

func drawDetailsBox(pdf *gofpdf.Fpdf, pageW, y float64, data Data) {
	const boxWidth = 300.0
	const boxHeight = 120.0
	boxX := (pageW - boxWidth) / 2

	pdf.SetFillColor(231, 243, 255)
	pdf.SetDrawColor(102, 126, 234)
	pdf.SetLineWidth(1)
	pdf.Rect(boxX, y, boxWidth, boxHeight, "FD")

	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(boxX+20, y+28, "Certificate Details")

	pdf.SetTextColor(52, 73, 94)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(boxX+20, y+50, "Certificate ID: "+data.CertificateID)
	pdf.Text(boxX+20, y+70, "Issued By: "+data.Issuer)
	pdf.Text(boxX+20, y+90, "Issue Date: "+data.IssueDate)
	if data.ImageRef != "" {
		pdf.Text(boxX+20, y+110, "Image Hash: "+truncateRef(data.ImageRef))
	}
}

func centered(pdf *gofpdf.Fpdf, pageW, y float64, text string) {
	pdf.SetXY(0, y)
	pdf.CellFormat(pageW, 20, text, "", 0, "C", false, 0, "")
}

// embeddableType reports the gofpdf image type for the bytes, validating them
// with a config decode first so a bad image cannot poison the document.
func embeddableType(b []byte) (string, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return "", false
	}
	switch format {
	case "png":
		return "PNG", true
	case "jpeg":
		return "JPG", true
	case "gif":
		return "GIF", true
	default:
		return "", false
	}
}

func truncateRef(ref string) string {
	if len(ref) <= 20 {
		return ref
	}
	return fmt.Sprintf("%s...", ref[:20])
}
