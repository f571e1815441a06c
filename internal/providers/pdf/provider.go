package pdf

import (
	"context"
	"errors"
	"io"

	"github.com/smallbiznis/orderdesk/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("pdf.provider",
	fx.Provide(NewPDFProvider),
)

var ErrUnavailable = errors.New("pdf_unavailable")

// Provider renders order documents.
type Provider interface {
	GenerateOrderReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

// ReceiptItem holds preformatted values for one receipt line.
type ReceiptItem struct {
	Description string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type ReceiptData struct {
	OrderNumber   string
	OrderDate     string
	Status        string
	CustomerName  string
	CustomerEmail string
	Items         []ReceiptItem
	Total         string
}

type PDFProvider struct {
	issuer string
}

func NewPDFProvider(cfg config.Config) Provider {
	return &PDFProvider{issuer: cfg.AppName}
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateOrderReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	return nil, ErrUnavailable
}
