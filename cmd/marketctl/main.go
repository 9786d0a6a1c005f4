package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samvad-hq/market-contract-tests/internal/app"
	"github.com/samvad-hq/market-contract-tests/internal/config"
	"github.com/samvad-hq/market-contract-tests/internal/logger"
	"github.com/samvad-hq/market-contract-tests/pkg/market"
)

const usage = `usage: marketctl [flags] <command> [args]

commands:
  products          list all products
  product <id>      show one product
  category <id>     show one category with its products
  delete <id>       delete a product
  sweep             delete products left in the ledger by interrupted runs
  probe             run read-only checks and publish the report

flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "marketctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("marketctl", flag.ContinueOnError)
	baseURL := fs.String("url", "", "market API base URL (overrides MARKET_BASE_URL)")
	noPublish := fs.Bool("no-publish", false, "probe only; skip publishing the report")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize marketctl", "error", err)
		return err
	}
	defer a.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	products := a.Client().Products()

	switch cmd {
	case "products":
		resp, err := products.GetProducts(ctx)
		return printResponse(out, resp, err)
	case "product":
		id, err := idArg(cmd, rest)
		if err != nil {
			return err
		}
		resp, err := products.GetProduct(ctx, id)
		return printResponse(out, resp, err)
	case "category":
		id, err := idArg(cmd, rest)
		if err != nil {
			return err
		}
		resp, err := a.Client().Categories().GetCategory(ctx, id)
		return printResponse(out, resp, err)
	case "delete":
		id, err := idArg(cmd, rest)
		if err != nil {
			return err
		}
		resp, err := products.DeleteProduct(ctx, id)
		if err != nil {
			return err
		}
		if !resp.IsSuccessful() {
			return printResponse(out, resp, nil)
		}
		if err := a.Sweeper().Forget(id); err != nil {
			return err
		}
		return writeJSON(out, map[string]any{"deleted": id, "status": resp.Code()})
	case "sweep":
		released, err := a.Sweeper().Sweep(ctx)
		if werr := writeJSON(out, map[string]any{"released": released}); werr != nil {
			return werr
		}
		return err
	case "probe":
		report := a.Prober().Probe(ctx)
		if err := writeJSON(out, report); err != nil {
			return err
		}
		if !*noPublish {
			if _, err := a.Prober().Publish(ctx, report); err != nil {
				return err
			}
		}
		if !report.OK() {
			return fmt.Errorf("probe failed: %d of %d checks", report.Failed(), len(report.Checks))
		}
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func idArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected exactly one id argument", cmd)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid id %q: %w", cmd, args[0], err)
	}
	return id, nil
}

// printResponse writes the decoded body, or the server's error message on a
// non-2xx status.
func printResponse[T any](out io.Writer, resp *market.Response[T], err error) error {
	if err != nil {
		return err
	}
	if !resp.IsSuccessful() {
		if msg := market.DecodeError(resp); msg != nil {
			_ = writeJSON(out, msg)
		}
		return fmt.Errorf("server answered %s", resp.Status())
	}
	return writeJSON(out, resp.Body())
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
