package certificate

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ErrUnsupportedText is returned when a name contains characters the
// embedded font has no glyph for.
var ErrUnsupportedText = errors.New("certificate: text contains characters the font cannot print")

type document struct {
	FullName      string
	TrainingName  string
	CompletedOn   string
	CertificateID string
	IssuedOn      string
	QRCode        []byte
}

const (
	marginX = 25.0
	qrSize  = 42.0
	qrImage = "verification-qr"
	family  = "go"
)

var (
	fontsOnce sync.Once
	fonts     []*sfnt.Font
	fontsErr  error
)

func loadFonts() ([]*sfnt.Font, error) {
	fontsOnce.Do(func() {
		for _, ttf := range [][]byte{goregular.TTF, gobold.TTF} {
			f, err := sfnt.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("parse certificate font: %w", err)
				return
			}
			fonts = append(fonts, f)
		}
	})
	return fonts, fontsErr
}

// checkGlyphs fails on the first rune that either face would draw as a
// missing-glyph box.
func checkGlyphs(texts ...string) error {
	faces, err := loadFonts()
	if err != nil {
		return err
	}
	var buf sfnt.Buffer
	for _, text := range texts {
		for _, r := range text {
			if r == ' ' {
				continue
			}
			for _, f := range faces {
				idx, err := f.GlyphIndex(&buf, r)
				if err != nil {
					return fmt.Errorf("glyph lookup: %w", err)
				}
				if idx == 0 {
					return fmt.Errorf("%w: %q in %q", ErrUnsupportedText, r, text)
				}
			}
		}
	}
	return nil
}

// render lays out a single A4 page and returns the finished PDF. All text
// is set in the embedded Go fonts so names outside Latin-1 print as typed.
func render(d document, compress bool) ([]byte, error) {
	if err := checkGlyphs(d.FullName, d.TrainingName); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.AddUTF8FontFromBytes(family, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	pdf.SetMargins(marginX, 18, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	center := func(style string, size, height float64, text string) {
		pdf.SetFont(family, style, size)
		pdf.MultiCell(0, height, text, "", "C", false)
	}

	pdf.SetY(45)
	center("B", 32, 14, "Certificate of Completion")
	pdf.Ln(16)
	center("", 16, 8, "This certifies that")
	pdf.Ln(4)
	center("B", 24, 11, d.FullName)
	pdf.Ln(4)
	center("", 16, 8, "has successfully completed the training")
	pdf.Ln(4)
	center("B", 20, 10, d.TrainingName)
	pdf.Ln(4)
	center("", 14, 7, "on "+d.CompletedOn)

	qrX := pageW - marginX - qrSize
	qrY := pageH - 30 - qrSize
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImage, opts, bytes.NewReader(d.QRCode))
	pdf.ImageOptions(qrImage, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	pdf.SetFont(family, "", 10)
	pdf.SetXY(marginX, pageH-35)
	pdf.CellFormat(0, 5, "Certificate ID: "+d.CertificateID, "", 1, "L", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(0, 5, "Issue Date: "+d.IssuedOn, "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 8)
	pdf.SetXY(qrX, qrY+qrSize+2)
	pdf.CellFormat(qrSize, 4, "Scan QR code to verify", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
