package pdf

import (
	"context"
	"errors"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/gstbilling/internal/config"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	podomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrRenderingDisabled is returned by the NoOp provider.
var ErrRenderingDisabled = errors.New("pdf_rendering_disabled")

// Provider renders billing documents to PDF bytes. Renderers read only the
// frozen snapshot on the document and the company letterhead.
type Provider interface {
	RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice, company config.CompanyConfig, includeSignature bool) ([]byte, error)
	RenderQuotation(ctx context.Context, quotation quotationdomain.Quotation, company config.CompanyConfig, includeSignature bool) ([]byte, error)
	RenderPurchaseOrder(ctx context.Context, po podomain.PurchaseOrder, company config.CompanyConfig, includeSignature bool) ([]byte, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) RenderInvoice(context.Context, invoicedomain.Invoice, config.CompanyConfig, bool) ([]byte, error) {
	return nil, ErrRenderingDisabled
}

func (p *NoOpProvider) RenderQuotation(context.Context, quotationdomain.Quotation, config.CompanyConfig, bool) ([]byte, error) {
	return nil, ErrRenderingDisabled
}

func (p *NoOpProvider) RenderPurchaseOrder(context.Context, podomain.PurchaseOrder, config.CompanyConfig, bool) ([]byte, error) {
	return nil, ErrRenderingDisabled
}

// Filename builds the download name for a document, e.g.
// "Invoice-ffi-25-26-001.pdf".
func Filename(kind, number string) string {
	name := slug.Make(strings.TrimSpace(number))
	if name == "" {
		return kind + ".pdf"
	}
	return kind + "-" + name + ".pdf"
}

func NewProvider(cfg config.Config, log *zap.Logger) Provider {
	if !cfg.PDFEnabled {
		log.Info("pdf rendering disabled")
		return &NoOpProvider{}
	}
	return New()
}

var Module = fx.Module("pdf",
	fx.Provide(NewProvider),
)
