package session

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

func newSession(t *testing.T) (*Session, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.SeedCustomers(domain.Customer{CustomerID: "KH1", CustomerName: "An"})
	srv.SeedProducts(domain.Product{ProductID: "SP1", ProductName: "Tra", Price: decimal.NewFromInt(20000)})
	srv.SeedInvoices(domain.Invoice{
		InvoiceID:  "HD1",
		CustomerID: "KH1",
		Details:    []domain.InvoiceDetail{{InvoiceID: "HD1", ProductID: "SP1", Quantity: 1, TotalPrice: decimal.NewFromInt(20000)}},
	})
	client, err := apiclient.NewClient(config.ApiConfig{BaseURL: srv.BaseURL(), Timeout: 2 * time.Second, NodeID: 1})
	require.NoError(t, err)
	return New(RemotesOf(client), nil), srv
}

func TestNewCreatesBus(t *testing.T) {
	s, _ := newSession(t)
	assert.NotNil(t, s.Bus())
	assert.Empty(t, s.Customers().Items())
}

func TestLoadInvoiceForm(t *testing.T) {
	s, srv := newSession(t)

	require.NoError(t, s.LoadInvoiceForm(context.Background()))

	assert.Len(t, s.Customers().Items(), 1)
	assert.Len(t, s.Products().Items(), 1)
	assert.Equal(t, 0, srv.Calls(http.MethodGet, apiclient.InvoicePath))
}

func TestLoadInvoiceFormOneFailureStillLoadsOther(t *testing.T) {
	s, srv := newSession(t)
	srv.FailNext(http.MethodGet, apiclient.CustomerPath, http.StatusInternalServerError, "down")

	err := s.LoadInvoiceForm(context.Background())

	require.Error(t, err)
	assert.Error(t, s.Customers().Err())
	assert.False(t, s.Customers().Loading())
	assert.Len(t, s.Products().Items(), 1)
	assert.NoError(t, s.Products().Err())
}

func TestRefreshAndEdit(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Refresh(context.Background()))

	ed, err := s.EditInvoice("HD1")
	require.NoError(t, err)
	assert.True(t, ed.IsEdit())
	assert.True(t, ed.Total().Equal(decimal.NewFromInt(20000)))

	_, err = s.EditInvoice("HD404")
	assert.Error(t, err)
}

func TestNewInvoiceSubmitsThroughStore(t *testing.T) {
	s, srv := newSession(t)
	require.NoError(t, s.LoadInvoiceForm(context.Background()))

	var published []store.State[domain.Invoice]
	require.NoError(t, s.Bus().Subscribe(store.TopicInvoices, func(st store.State[domain.Invoice]) {
		published = append(published, st)
	}))

	c := s.NewInvoice()
	require.NoError(t, c.SetInvoiceID("hd2"))
	require.NoError(t, c.SelectCustomer(domain.Customer{CustomerID: "KH1"}))
	_, err := c.StageLine("SP1", 2)
	require.NoError(t, err)
	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	_, ok := s.Invoices().Find("HD2")
	assert.True(t, ok)
	assert.Len(t, srv.Invoices(), 2)
	require.NotEmpty(t, published)
	assert.Len(t, published[len(published)-1].Items, 1)
}
