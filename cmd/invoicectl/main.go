package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/talkincode/toughinvoice/config"
	"github.com/talkincode/toughinvoice/internal/app"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/format"
	"github.com/talkincode/toughinvoice/internal/session"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	apiURL   = flag.String("api", "", "override the api base url")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: invoicectl [-c config.yml] [-api url] customers|products|invoices|invoice <id>\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig(*conffile)
	if *apiURL != "" {
		cfg.Api.BaseURL = *apiURL
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer application.Release()

	if err := run(context.Background(), application.Session(), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		application.Release()
		os.Exit(1)
	}
}

func run(ctx context.Context, sess *session.Session, args []string) error {
	switch args[0] {
	case "customers":
		if err := sess.Customers().FetchAll(ctx); err != nil {
			return err
		}
		for _, c := range sess.Customers().Items() {
			fmt.Println(format.CustomerRow(c))
		}
	case "products":
		if err := sess.Products().FetchAll(ctx); err != nil {
			return err
		}
		for _, p := range sess.Products().Items() {
			fmt.Println(format.ProductRow(p))
		}
	case "invoices":
		if err := sess.Invoices().FetchAll(ctx); err != nil {
			return err
		}
		for _, i := range sess.Invoices().Items() {
			fmt.Println(format.InvoiceRow(i))
		}
	case "invoice":
		if len(args) < 2 {
			return fmt.Errorf("invoice id required")
		}
		return showInvoice(ctx, sess, args[1])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func showInvoice(ctx context.Context, sess *session.Session, id string) error {
	if err := sess.Refresh(ctx); err != nil {
		return err
	}
	editor, err := sess.EditInvoice(id)
	if err != nil {
		return err
	}
	draft := editor.Draft()
	fmt.Println(format.InvoiceRow(draft))
	if c, ok := editor.SelectedCustomer(); ok {
		fmt.Println("  customer:", c.CustomerName)
	}
	for _, d := range draft.Details {
		name := ""
		if p, ok := sess.Products().Find(d.ProductID); ok {
			name = p.ProductName
		}
		fmt.Println("  " + format.DetailRow(d, name))
	}
	fmt.Println("  total:", format.Price(editor.Total()))
	return nil
}

func errorMessage(err error) string {
	if rerr := apiclient.AsRemoteError(err); rerr != nil {
		return rerr.Message()
	}
	return err.Error()
}
