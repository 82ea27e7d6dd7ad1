package domain

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	// the api expects prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Invoice header plus its line items
type Invoice struct {
	InvoiceID   string          `json:"invoiceID"`
	CustomerID  string          `json:"customerID"`
	InvoiceDate Timestamp       `json:"invoiceDate"`
	Details     []InvoiceDetail `json:"details"`
}

func (i Invoice) Key() string {
	return i.InvoiceID
}

// Total sums the frozen line totals; an invoice without lines totals 0.
func (i Invoice) Total() decimal.Decimal {
	return SumDetails(i.Details)
}

// Clone returns a copy whose Details slice is not shared with i.
func (i Invoice) Clone() Invoice {
	out := i
	if i.Details != nil {
		out.Details = make([]InvoiceDetail, len(i.Details))
		copy(out.Details, i.Details)
	}
	return out
}

// SumDetails adds up TotalPrice over details.
func SumDetails(details []InvoiceDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.TotalPrice)
	}
	return total
}

// InvoiceDetail is one product line of an invoice.
// InvoiceDetailID is nil until the remote api has assigned one.
type InvoiceDetail struct {
	InvoiceDetailID *int64
	InvoiceID       string
	ProductID       string
	Quantity        int
	TotalPrice      decimal.Decimal
}

// Persisted reports whether the remote api assigned an id to the line.
func (d InvoiceDetail) Persisted() bool {
	return d.InvoiceDetailID != nil
}

// invoiceDetailWire is the api representation, where 0 means unassigned.
type invoiceDetailWire struct {
	InvoiceDetailID int64           `json:"invoiceDetailID"`
	InvoiceID       string          `json:"invoiceID"`
	ProductID       string          `json:"productID"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

func (d InvoiceDetail) MarshalJSON() ([]byte, error) {
	w := invoiceDetailWire{
		InvoiceID:  d.InvoiceID,
		ProductID:  d.ProductID,
		Quantity:   d.Quantity,
		TotalPrice: d.TotalPrice,
	}
	if d.InvoiceDetailID != nil {
		w.InvoiceDetailID = *d.InvoiceDetailID
	}
	return json.Marshal(w)
}

func (d *InvoiceDetail) UnmarshalJSON(data []byte) error {
	var w invoiceDetailWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = InvoiceDetail{
		InvoiceID:  w.InvoiceID,
		ProductID:  w.ProductID,
		Quantity:   w.Quantity,
		TotalPrice: w.TotalPrice,
	}
	if w.InvoiceDetailID != 0 {
		id := w.InvoiceDetailID
		d.InvoiceDetailID = &id
	}
	return nil
}
