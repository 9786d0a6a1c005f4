package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samvad-hq/market-contract-tests/internal/logger"
	"github.com/samvad-hq/market-contract-tests/internal/storage"
	"github.com/samvad-hq/market-contract-tests/pkg/market"
)

// Sweeper deletes products recorded in the ledger.
type Sweeper struct {
	products market.ProductService
	store    storage.Store
	log      logger.Logger
}

// NewSweeper binds a sweeper to the product service and ledger.
func NewSweeper(products market.ProductService, store storage.Store, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Sweeper{products: products, store: store, log: log}
}

// Track records a created product so a later sweep can remove it.
func (s *Sweeper) Track(id int) error {
	if err := s.store.Track(id); err != nil {
		return fmt.Errorf("track product %d: %w", id, err)
	}
	return nil
}

// Forget drops id from the ledger without contacting the server.
func (s *Sweeper) Forget(id int) error {
	if err := s.store.Release(id); err != nil {
		return fmt.Errorf("release product %d: %w", id, err)
	}
	return nil
}

// Discard deletes one product. The id leaves the ledger once the server
// answers 2xx, 404 or 500; a transport error or any other status keeps it.
func (s *Sweeper) Discard(ctx context.Context, id int) error {
	_, err := s.discard(ctx, id)
	return err
}

// Sweep deletes every pending ledger entry and returns how many were released.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ids, err := s.store.Pending()
	if err != nil {
		return 0, fmt.Errorf("list pending products: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.log.InfoObj("sweep started", "sweep_meta", map[string]any{"pending": len(ids)})

	var errs []error
	released := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.discard(ctx, id)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			released++
		}
	}

	s.log.InfoObj("sweep completed", "sweep_meta", map[string]any{
		"pending":  len(ids),
		"released": released,
		"failed":   len(errs),
	})
	return released, errors.Join(errs...)
}

func (s *Sweeper) discard(ctx context.Context, id int) (bool, error) {
	resp, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		s.log.WarnObj("product delete failed", "sweep_error", map[string]any{
			"product_id": id,
			"error":      err.Error(),
		})
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}

	if !gone(resp.Code()) {
		return false, fmt.Errorf("delete product %d: unexpected status %d", id, resp.Code())
	}
	if err := s.store.Release(id); err != nil {
		return false, fmt.Errorf("release product %d: %w", id, err)
	}
	s.log.DebugObj("product discarded", "sweep_delete", map[string]any{
		"product_id": id,
		"status":     resp.Code(),
	})
	return true, nil
}

// gone reports whether a delete status means the product no longer exists.
// The market answers 500 when deleting an id it does not know.
func gone(code int) bool {
	switch {
	case code >= 200 && code < 300:
		return true
	case code == http.StatusNotFound, code == http.StatusInternalServerError:
		return true
	default:
		return false
	}
}
