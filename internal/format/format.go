// Package format renders entities for display. Nothing here feeds back
// into computed totals.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughinvoice/internal/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.Vietnamese)
	vnd     = currency.MustParseISO("VND")
)

// Price renders an amount as Vietnamese dong rounded to whole dong, symbol
// first: 150000 renders as "₫ 150.000".
func Price(amount decimal.Decimal) string {
	return printer.Sprint(currency.Symbol(vnd.Amount(amount.InexactFloat64())))
}

// Date renders t as a vi-VN short date, e.g. 2/1/2024 for 2 January.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2/1/2006")
}

func CustomerRow(c domain.Customer) string {
	if c.Phone == nil {
		return fmt.Sprintf("%s  %s", c.CustomerID, c.CustomerName)
	}
	return fmt.Sprintf("%s  %s  %s", c.CustomerID, c.CustomerName, *c.Phone)
}

func ProductRow(p domain.Product) string {
	return fmt.Sprintf("%s  %s  %s", p.ProductID, p.ProductName, Price(p.Price))
}

func InvoiceRow(i domain.Invoice) string {
	return fmt.Sprintf("%s  %s  %s  %s", i.InvoiceID, i.CustomerID, Date(i.InvoiceDate.Time), Price(i.Total()))
}

// DetailRow renders one invoice line; productName falls back to N/A.
func DetailRow(d domain.InvoiceDetail, productName string) string {
	if productName == "" {
		productName = "N/A"
	}
	return fmt.Sprintf("%s  x%d  %s", productName, d.Quantity, Price(d.TotalPrice))
}
