package composer

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughinvoice/internal/domain"
	"go.uber.org/zap"
)

// CustomerLookup resolves customers from the loaded collection
type CustomerLookup interface {
	Find(id string) (domain.Customer, bool)
}

// ProductLookup resolves products from the loaded collection
type ProductLookup interface {
	Find(id string) (domain.Product, bool)
}

// InvoiceSubmitter persists a composed invoice
type InvoiceSubmitter interface {
	Add(ctx context.Context, invoice domain.Invoice) error
	Update(ctx context.Context, id string, invoice domain.Invoice) error
}

// Composer builds the lines of one invoice before it is submitted.
// It is owned by a single form and is not safe for concurrent use.
type Composer struct {
	invoices  InvoiceSubmitter
	customers CustomerLookup
	products  ProductLookup
	now       func() time.Time

	draft      domain.Invoice
	customer   *domain.Customer
	edit       bool
	originalID string
}

type Option func(*Composer)

// WithClock overrides the clock used to default the invoice date.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// New starts composing a fresh invoice dated now.
func New(invoices InvoiceSubmitter, customers CustomerLookup, products ProductLookup, opts ...Option) *Composer {
	c := &Composer{
		invoices:  invoices,
		customers: customers,
		products:  products,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.draft = domain.Invoice{
		InvoiceDate: domain.NewTimestamp(c.now()),
		Details:     make([]domain.InvoiceDetail, 0),
	}
	return c
}

// NewEdit starts editing existing. The invoice id is kept as the update key
// and the customer is resolved from the loaded customers when present.
func NewEdit(invoices InvoiceSubmitter, customers CustomerLookup, products ProductLookup, existing domain.Invoice, opts ...Option) *Composer {
	c := New(invoices, customers, products, opts...)
	c.edit = true
	c.originalID = existing.InvoiceID
	c.draft = existing.Clone()
	if c.draft.InvoiceDate.IsZero() {
		c.draft.InvoiceDate = domain.NewTimestamp(c.now())
	}
	if c.draft.Details == nil {
		c.draft.Details = make([]domain.InvoiceDetail, 0)
	}
	if cust, ok := customers.Find(existing.CustomerID); ok {
		c.customer = &cust
	}
	return c
}

func (c *Composer) IsEdit() bool {
	return c.edit
}

// Draft returns a copy of the invoice being composed.
func (c *Composer) Draft() domain.Invoice {
	return c.draft.Clone()
}

func (c *Composer) Details() []domain.InvoiceDetail {
	return c.draft.Clone().Details
}

// SelectedCustomer returns the retained customer reference.
func (c *Composer) SelectedCustomer() (domain.Customer, bool) {
	if c.customer == nil {
		return domain.Customer{}, false
	}
	return *c.customer, true
}

// SetInvoiceID sets the raw invoice id; it is normalized on submit.
func (c *Composer) SetInvoiceID(id string) error {
	if c.edit {
		return domain.NewValidationError("invoiceID", "invoice id cannot be changed")
	}
	c.draft.InvoiceID = id
	return nil
}

func (c *Composer) SetInvoiceDate(t time.Time) {
	c.draft.InvoiceDate = domain.NewTimestamp(t)
}

// SelectCustomer bills the invoice to customer, which must be loaded.
func (c *Composer) SelectCustomer(customer domain.Customer) error {
	loaded, ok := c.customers.Find(customer.CustomerID)
	if !ok {
		return domain.NewValidationError("customerID", "customer is not in the loaded customer list")
	}
	c.customer = &loaded
	c.draft.CustomerID = loaded.CustomerID
	return nil
}

// StageLine appends a line for quantity units of productID. The line total
// is computed from the loaded product price now and never recomputed.
// A product already on the invoice is rejected, not merged.
func (c *Composer) StageLine(productID string, quantity int) (domain.InvoiceDetail, error) {
	if strings.TrimSpace(productID) == "" {
		return domain.InvoiceDetail{}, domain.NewValidationError("productID", "select a product")
	}
	if quantity <= 0 {
		return domain.InvoiceDetail{}, domain.NewValidationError("quantity", "quantity must be a positive integer")
	}
	if c.hasProduct(productID) {
		return domain.InvoiceDetail{}, domain.NewValidationError("productID", "product is already on the invoice")
	}
	product, ok := c.products.Find(productID)
	if !ok {
		return domain.InvoiceDetail{}, domain.NewValidationError("productID", "product is not in the loaded product list")
	}

	detail := domain.InvoiceDetail{
		InvoiceID:  c.draft.InvoiceID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: product.LineTotal(quantity),
	}
	c.draft.Details = append(c.draft.Details, detail)
	return detail, nil
}

// StageLineText is StageLine fed from a quantity text field.
func (c *Composer) StageLineText(productID, quantityText string) (domain.InvoiceDetail, error) {
	return c.StageLine(productID, SanitizeQuantity(quantityText))
}

// RemoveLine drops the line at index.
func (c *Composer) RemoveLine(index int) error {
	if index < 0 || index >= len(c.draft.Details) {
		return domain.NewValidationError("details", "no line at that position")
	}
	details := make([]domain.InvoiceDetail, 0, len(c.draft.Details)-1)
	details = append(details, c.draft.Details[:index]...)
	details = append(details, c.draft.Details[index+1:]...)
	c.draft.Details = details
	return nil
}

// Total is the sum of the line totals, 0 without lines.
func (c *Composer) Total() decimal.Decimal {
	return domain.SumDetails(c.draft.Details)
}

// Submit validates the draft and hands it to the invoice store: Add for a
// new invoice, Update keyed by the original id when editing. Validation
// failures never reach the store.
func (c *Composer) Submit(ctx context.Context) (domain.Invoice, error) {
	id := domain.NormalizeID(c.draft.InvoiceID)
	if id == "" {
		return domain.Invoice{}, domain.NewValidationError("invoiceID", "invoice id is required")
	}
	if c.draft.CustomerID == "" {
		return domain.Invoice{}, domain.NewValidationError("customerID", "select a customer")
	}
	if len(c.draft.Details) == 0 {
		return domain.Invoice{}, domain.NewValidationError("details", "add at least one product")
	}

	invoice := domain.Invoice{
		InvoiceID:   id,
		CustomerID:  c.draft.CustomerID,
		InvoiceDate: c.draft.InvoiceDate,
		Details:     make([]domain.InvoiceDetail, len(c.draft.Details)),
	}
	for i, d := range c.draft.Details {
		d.InvoiceID = id
		invoice.Details[i] = d
	}

	var err error
	if c.edit {
		err = c.invoices.Update(ctx, c.originalID, invoice)
	} else {
		err = c.invoices.Add(ctx, invoice)
	}
	if err != nil {
		return domain.Invoice{}, err
	}

	zap.L().Info("invoice submitted",
		zap.String("invoice_id", id),
		zap.Bool("edit", c.edit),
		zap.Int("lines", len(invoice.Details)),
		zap.String("total", invoice.Total().String()),
	)
	c.draft = invoice.Clone()
	return invoice, nil
}

func (c *Composer) hasProduct(productID string) bool {
	for _, d := range c.draft.Details {
		if d.ProductID == productID {
			return true
		}
	}
	return false
}
