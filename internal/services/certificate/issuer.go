// Package certificate renders completion certificates as PDF documents with
// a QR code pointing at the public verification page.
package certificate

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"traintrace/internal/models"
)

const (
	IDPrefix      = "CERT-"
	DataURLPrefix = "data:application/pdf;base64,"
)

var (
	ErrBarcode         = errors.New("certificate: barcode generation failed")
	ErrInvalidArtifact = errors.New("certificate: artifact is not a PDF data URL")
)

// Certificate is what gets persisted on the trainee: the identifier and the
// whole PDF as a data URL.
type Certificate struct {
	ID  string
	URL string
}

type Issuer struct {
	protocol string
	domain   string
	now      func() time.Time
	newID    func() string
	barcode  func(content string) ([]byte, error)
	compress bool
}

func NewIssuer(protocol, domain string) *Issuer {
	return &Issuer{
		protocol: protocol,
		domain:   domain,
		now:      time.Now,
		newID:    func() string { return IDPrefix + uuid.NewString() },
		barcode: func(content string) ([]byte, error) {
			return qrcode.Encode(content, qrcode.Medium, 512)
		},
		compress: true,
	}
}

func (i *Issuer) VerificationURL(traineeID string) string {
	return fmt.Sprintf("%s://%s/verify/%s", i.protocol, i.domain, traineeID)
}

// Issue generates a fresh identifier and renders the certificate. Nothing is
// returned unless the QR code could be produced and every character of the
// names can be printed.
func (i *Issuer) Issue(trainee *models.Trainee, training *models.Training) (*Certificate, error) {
	id := i.newID()
	verifyURL := i.VerificationURL(trainee.ID)

	png, err := i.barcode(verifyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBarcode, err)
	}

	completed := trainee.TrainingDate
	if completed.IsZero() {
		completed = training.Date
	}
	pdf, err := render(document{
		FullName:      strings.TrimSpace(trainee.Name + " " + trainee.Surname),
		TrainingName:  training.Name,
		CompletedOn:   completed.Long(),
		CertificateID: id,
		IssuedOn:      i.now().Format("January 2, 2006"),
		QRCode:        png,
	}, i.compress)
	if err != nil {
		return nil, err
	}
	return &Certificate{ID: id, URL: DataURLPrefix + base64.StdEncoding.EncodeToString(pdf)}, nil
}

// DecodeArtifact returns the PDF bytes held in a stored certificate URL.
func DecodeArtifact(dataURL string) ([]byte, error) {
	payload, ok := strings.CutPrefix(dataURL, DataURLPrefix)
	if !ok || payload == "" {
		return nil, ErrInvalidArtifact
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return b, nil
}
