package composer

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughinvoice/config"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/apitest"
	"github.com/talkincode/toughinvoice/internal/domain"
	"github.com/talkincode/toughinvoice/internal/store"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	srv       *apitest.Server
	customers *store.CustomerStore
	products  *store.ProductStore
	invoices  *store.InvoiceStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.SeedCustomers(domain.Customer{CustomerID: "KH1", CustomerName: "Nguyen Van A"})
	srv.SeedProducts(
		domain.Product{ProductID: "SP1", ProductName: "Ca phe", Price: decimal.NewFromInt(20000)},
		domain.Product{ProductID: "SP2", ProductName: "Tra", Price: decimal.NewFromInt(50000)},
	)
	client, err := apiclient.NewClient(config.ApiConfig{BaseURL: srv.BaseURL(), Timeout: 2 * time.Second, NodeID: 1})
	require.NoError(t, err)

	f := &fixture{
		srv:       srv,
		customers: store.NewCustomerStore(client.Customers(), nil),
		products:  store.NewProductStore(client.Products(), nil),
		invoices:  store.NewInvoiceStore(client.Invoices(), nil),
	}
	ctx := context.Background()
	require.NoError(t, f.customers.FetchAll(ctx))
	require.NoError(t, f.products.FetchAll(ctx))
	return f
}

func (f *fixture) compose() *Composer {
	return New(f.invoices, f.customers, f.products, WithClock(func() time.Time { return fixedNow }))
}

func TestNewDefaultsDateAndEmptyLines(t *testing.T) {
	c := newFixture(t).compose()

	draft := c.Draft()
	assert.True(t, draft.InvoiceDate.Equal(fixedNow))
	assert.Empty(t, draft.Details)
	assert.False(t, c.IsEdit())
	assert.True(t, c.Total().IsZero())
}

func TestStageLineComputesTotal(t *testing.T) {
	c := newFixture(t).compose()
	require.NoError(t, c.SetInvoiceID("hd1"))

	d, err := c.StageLine("SP1", 3)

	require.NoError(t, err)
	assert.True(t, d.TotalPrice.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, 3, d.Quantity)
	assert.Equal(t, "hd1", d.InvoiceID)
	assert.False(t, d.Persisted())
}

func TestStageLineRejectsDuplicateProduct(t *testing.T) {
	c := newFixture(t).compose()
	_, err := c.StageLine("SP1", 1)
	require.NoError(t, err)

	_, err = c.StageLine("SP1", 4)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	details := c.Details()
	require.Len(t, details, 1)
	assert.Equal(t, 1, details[0].Quantity)
}

func TestStageLineValidation(t *testing.T) {
	c := newFixture(t).compose()

	tests := []struct {
		name      string
		productID string
		quantity  int
		field     string
	}{
		{"no product", "", 1, "productID"},
		{"zero quantity", "SP1", 0, "quantity"},
		{"negative quantity", "SP1", -2, "quantity"},
		{"unknown product", "SP9", 1, "productID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.StageLine(tt.productID, tt.quantity)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, c.Details())
}

func TestTotalSumsLines(t *testing.T) {
	c := newFixture(t).compose()
	_, err := c.StageLine("SP1", 5)
	require.NoError(t, err)
	_, err = c.StageLine("SP2", 1)
	require.NoError(t, err)

	assert.True(t, c.Total().Equal(decimal.NewFromInt(150000)))

	require.NoError(t, c.RemoveLine(0))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(50000)))
	assert.Error(t, c.RemoveLine(3))
	assert.Error(t, c.RemoveLine(-1))
}

func TestStageLineText(t *testing.T) {
	c := newFixture(t).compose()

	d, err := c.StageLineText("SP1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Quantity)

	_, err = c.StageLineText("SP2", "000")
	assert.True(t, domain.IsValidation(err))
}

func TestLineTotalFrozenAtStaging(t *testing.T) {
	f := newFixture(t)
	c := f.compose()
	_, err := c.StageLine("SP1", 2)
	require.NoError(t, err)

	// a later price change must not reprice the staged line
	require.NoError(t, f.products.Update(context.Background(), "SP1",
		domain.Product{ProductID: "SP1", ProductName: "Ca phe", Price: decimal.NewFromInt(99000)}))

	assert.True(t, c.Total().Equal(decimal.NewFromInt(40000)))
}

func TestSubmitValidationMakesNoRemoteCall(t *testing.T) {
	f := newFixture(t)
	before := f.srv.TotalCalls()

	c := f.compose()
	_, err := c.Submit(context.Background())
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, c.SetInvoiceID("HD1"))
	_, err = c.Submit(context.Background())
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, c.SelectCustomer(domain.Customer{CustomerID: "KH1"}))
	_, err = c.Submit(context.Background())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "details", verr.Field)

	assert.Equal(t, before, f.srv.TotalCalls())
	assert.Empty(t, f.invoices.Items())
}

func TestSelectCustomerMustBeLoaded(t *testing.T) {
	c := newFixture(t).compose()

	err := c.SelectCustomer(domain.Customer{CustomerID: "KH404"})

	assert.True(t, domain.IsValidation(err))
	_, ok := c.SelectedCustomer()
	assert.False(t, ok)
}

func TestSubmitCreatesInvoice(t *testing.T) {
	f := newFixture(t)
	c := f.compose()
	require.NoError(t, c.SetInvoiceID("  hd001 "))
	require.NoError(t, c.SelectCustomer(domain.Customer{CustomerID: "KH1"}))
	_, err := c.StageLine("SP1", 3)
	require.NoError(t, err)

	inv, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "HD001", inv.InvoiceID)
	assert.Equal(t, "HD001", inv.Details[0].InvoiceID)
	assert.Equal(t, 1, f.srv.Calls(http.MethodPost, apiclient.InvoicePath))

	cached, ok := f.invoices.Find("HD001")
	require.True(t, ok)
	assert.Equal(t, "KH1", cached.CustomerID)
	require.Len(t, cached.Details, 1)
	assert.Equal(t, "SP1", cached.Details[0].ProductID)
	assert.Equal(t, 3, cached.Details[0].Quantity)
	assert.True(t, cached.Total().Equal(decimal.NewFromInt(60000)))

	remote := f.srv.Invoices()
	require.Len(t, remote, 1)
	assert.Equal(t, "HD001", remote[0].InvoiceID)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	c := f.compose()
	require.NoError(t, c.SetInvoiceID("HD2"))
	require.NoError(t, c.SelectCustomer(domain.Customer{CustomerID: "KH1"}))
	_, err := c.StageLine("SP2", 1)
	require.NoError(t, err)
	f.srv.FailNext(http.MethodPost, apiclient.InvoicePath, http.StatusInternalServerError, "cannot save")

	_, err = c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "cannot save", apiclient.AsRemoteError(err).Message())
	assert.Len(t, c.Details(), 1)
	assert.Empty(t, f.invoices.Items())
}

func TestEditSubmitsUpdateUnderOriginalID(t *testing.T) {
	f := newFixture(t)
	existingID := int64(7)
	existing := domain.Invoice{
		InvoiceID:   "HD9",
		CustomerID:  "KH1",
		InvoiceDate: domain.NewTimestamp(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		Details: []domain.InvoiceDetail{
			{InvoiceDetailID: &existingID, InvoiceID: "HD9", ProductID: "SP1", Quantity: 1, TotalPrice: decimal.NewFromInt(20000)},
		},
	}
	f.srv.SeedInvoices(existing)
	require.NoError(t, f.invoices.FetchAll(context.Background()))
	loaded, ok := f.invoices.Find("HD9")
	require.True(t, ok)

	c := NewEdit(f.invoices, f.customers, f.products, loaded, WithClock(func() time.Time { return fixedNow }))
	require.True(t, c.IsEdit())
	assert.Error(t, c.SetInvoiceID("HD10"))
	cust, ok := c.SelectedCustomer()
	require.True(t, ok)
	assert.Equal(t, "Nguyen Van A", cust.CustomerName)

	_, err := c.StageLine("SP2", 2)
	require.NoError(t, err)
	inv, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Calls(http.MethodPut, apiclient.InvoicePath))
	assert.Equal(t, 0, f.srv.Calls(http.MethodPost, apiclient.InvoicePath))
	assert.True(t, inv.InvoiceDate.Equal(existing.InvoiceDate.Time))
	require.Len(t, inv.Details, 2)
	assert.Equal(t, existingID, *inv.Details[0].InvoiceDetailID)
	assert.False(t, inv.Details[1].Persisted())

	cached, _ := f.invoices.Find("HD9")
	assert.True(t, cached.Total().Equal(decimal.NewFromInt(120000)))
	assert.Len(t, f.invoices.Items(), 1)
}

func TestSanitizeQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"3", 3},
		{"1a2b", 12},
		{"-4", 4},
		{"0", 0},
		{"1234567", 12345},
		{" 42 ", 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeQuantity(tt.in), "input %q", tt.in)
	}
}
