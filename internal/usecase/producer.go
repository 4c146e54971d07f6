package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"resume-service/internal/domain"
)

const (
	pdfContentType = "application/pdf"
	pdfExtension   = "pdf"
)

// Renderer turns a self-contained HTML document into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Artifact is a produced document ready to be streamed.
type Artifact struct {
	Variant     domain.Variant
	FileName    string
	ContentType string
	Bytes       []byte
}

type Producer struct {
	renderer Renderer
	timeout  time.Duration
}

// NewProducer wraps a rendering backend. A zero timeout means the caller's
// context is the only deadline.
func NewProducer(r Renderer, timeout time.Duration) *Producer {
	return &Producer{renderer: r, timeout: timeout}
}

// Produce renders body to PDF. Backend failures and output that is not a PDF
// come back as render backend errors; nothing is retried.
func (p *Producer) Produce(ctx context.Context, body DocumentBody) (Artifact, error) {
	if !body.Variant.Valid() {
		return Artifact{}, domain.NewInvalidVariant(body.Variant.String(), "unknown variant")
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.renderer.RenderHTMLToPDF(ctx, body.HTML)
	if err != nil {
		return Artifact{}, domain.NewRenderBackend("document rendering failed", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return Artifact{}, domain.NewRenderBackend("document rendering failed",
			fmt.Errorf("invalid PDF output (len=%d)", len(out)))
	}

	return Artifact{
		Variant:     body.Variant,
		FileName:    FileName(body.Subject, body.Variant),
		ContentType: pdfContentType,
		Bytes:       out,
	}, nil
}

// FileName is the download name for subject and v, e.g.
// "ada-lovelace-resume-traditional.pdf".
func FileName(subject string, v domain.Variant) string {
	return fmt.Sprintf("%s-resume-%s.%s", subject, v, pdfExtension)
}
