package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/toughinvoice/config"
	"github.com/talkincode/toughinvoice/internal/domain"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const HeaderRequestID = "X-Request-Id"

// Client talks to the customer/product/invoice REST api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	node       *snowflake.Node
	debug      bool
}

// NewClient creates an api client from configuration.
// The configured timeout bounds every request.
func NewClient(cfg config.ApiConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultAppConfig.Api.Timeout
	}
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return nil, errors.Wrap(err, "request id generator")
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		node:       node,
		debug:      cfg.Debug,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Customers() *HTTPResource[domain.Customer] {
	return NewHTTPResource[domain.Customer](c, CustomerPath)
}

func (c *Client) Products() *HTTPResource[domain.Product] {
	return NewHTTPResource[domain.Product](c, ProductPath)
}

func (c *Client) Invoices() *HTTPResource[domain.Invoice] {
	return NewHTTPResource[domain.Invoice](c, InvoicePath)
}

func (c *Client) flow(method, url string) *dataflow.DataFlow {
	g := gout.New(c.httpClient)
	switch method {
	case http.MethodPost:
		return g.POST(url)
	case http.MethodPut:
		return g.PUT(url)
	case http.MethodDelete:
		return g.DELETE(url)
	default:
		return g.GET(url)
	}
}

// do executes one request and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	rid := c.node.Generate().String()
	var (
		body []byte
		code int
	)
	df := c.flow(method, c.baseURL+path).
		WithContext(ctx).
		SetHeader(gout.H{HeaderRequestID: rid}).
		Code(&code).
		BindBody(&body)
	if payload != nil {
		df = df.SetJSON(payload)
	}
	if c.debug {
		df = df.Debug(true)
	}

	start := time.Now()
	if err := df.Do(); err != nil {
		zap.L().Warn("api request failed",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, &RemoteError{
			Method:  method,
			Path:    path,
			Payload: err.Error(),
			Cause:   errors.WithStack(err),
		}
	}

	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(body))
		zap.L().Warn("api request rejected",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", code),
			zap.String("payload", msg),
		)
		return nil, &RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: code,
			Payload:    msg,
			Cause:      errors.Errorf("unexpected status %d", code),
		}
	}

	zap.L().Debug("api request done",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", code),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}
