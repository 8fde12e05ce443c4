package usecase

import (
	"context"
	"fmt"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
	"github.com/cloudcar/shopcache/internal/infrastructure/cache"
	"github.com/cloudcar/shopcache/internal/infrastructure/metrics"
)

// UpdateCartOutput is the result of a quantity update. Quantity is the
// product's new quantity (0 when the line was removed); Summary reflects the
// cart's state after the operation.
type UpdateCartOutput struct {
	Quantity int64
	Summary  model.CartSummary
}

// CartService defines the interface for session cart operations. Totals are
// recomputed from the full cart record on every call, never maintained
// incrementally.
type CartService interface {
	// Add increments the product's quantity by one, creating the line at 1
	// if absent, and returns the updated cart summary.
	Add(ctx context.Context, sessionID, productID string) (*model.CartSummary, error)

	// Get returns the cart's current state. An empty cart yields an empty
	// item list, not an error.
	Get(ctx context.Context, sessionID string) (*model.CartSummary, error)

	// Remove deletes the product's line entirely regardless of quantity.
	Remove(ctx context.Context, sessionID, productID string) (*model.CartSummary, error)

	// Update adjusts the product's quantity in the given direction. A
	// decrease that would reach zero removes the line. If the product is
	// absent, Update returns repository.ErrProductNotInCart together with a
	// non-nil output carrying the cart's actual totals, so the caller can
	// reconcile its state.
	Update(ctx context.Context, sessionID, productID string, action model.UpdateAction) (*UpdateCartOutput, error)
}

type cartService struct {
	store cache.CartStore
}

// NewCartService creates a new CartService instance.
func NewCartService(store cache.CartStore) CartService {
	return &cartService{store: store}
}

func (s *cartService) Add(ctx context.Context, sessionID, productID string) (*model.CartSummary, error) {
	if _, err := s.store.Increment(ctx, sessionID, productID, 1); err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpAdd, metrics.CartStatusError).Inc()
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	summary, err := s.summarize(ctx, sessionID)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpAdd, metrics.CartStatusError).Inc()
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpAdd, metrics.CartStatusSuccess).Inc()
	return summary, nil
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*model.CartSummary, error) {
	summary, err := s.summarize(ctx, sessionID)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpGet, metrics.CartStatusError).Inc()
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpGet, metrics.CartStatusSuccess).Inc()
	return summary, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID, productID string) (*model.CartSummary, error) {
	if err := s.store.Remove(ctx, sessionID, productID); err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpRemove, metrics.CartStatusError).Inc()
		return nil, fmt.Errorf("remove from cart: %w", err)
	}

	summary, err := s.summarize(ctx, sessionID)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpRemove, metrics.CartStatusError).Inc()
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpRemove, metrics.CartStatusSuccess).Inc()
	return summary, nil
}

func (s *cartService) Update(ctx context.Context, sessionID, productID string, action model.UpdateAction) (*UpdateCartOutput, error) {
	qty, present, err := s.store.Quantity(ctx, sessionID, productID)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
		return nil, fmt.Errorf("read cart quantity: %w", err)
	}

	if !present {
		// Reconciled totals accompany the error so the caller can repair
		// stale UI state.
		summary, serr := s.summarize(ctx, sessionID)
		if serr != nil {
			metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
			return nil, serr
		}
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusNotFound).Inc()
		return &UpdateCartOutput{Quantity: 0, Summary: *summary}, repository.ErrProductNotInCart
	}

	var newQty int64
	switch action {
	case model.ActionIncrease:
		newQty, err = s.store.Increment(ctx, sessionID, productID, 1)
		if err != nil {
			metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
			return nil, fmt.Errorf("increase cart quantity: %w", err)
		}
	case model.ActionDecrease:
		if qty <= 1 {
			if err := s.store.Remove(ctx, sessionID, productID); err != nil {
				metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
				return nil, fmt.Errorf("remove cart line: %w", err)
			}
			newQty = 0
		} else {
			newQty, err = s.store.Increment(ctx, sessionID, productID, -1)
			if err != nil {
				metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
				return nil, fmt.Errorf("decrease cart quantity: %w", err)
			}
			// A concurrent decrease may have raced us below zero; a line
			// must never persist with quantity <= 0.
			if newQty <= 0 {
				if err := s.store.Remove(ctx, sessionID, productID); err != nil {
					metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
					return nil, fmt.Errorf("remove cart line: %w", err)
				}
				newQty = 0
			}
		}
	default:
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
		return nil, fmt.Errorf("unknown cart update action %q", action)
	}

	summary, err := s.summarize(ctx, sessionID)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusError).Inc()
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues(metrics.CartOpUpdate, metrics.CartStatusSuccess).Inc()
	return &UpdateCartOutput{Quantity: newQty, Summary: *summary}, nil
}

// summarize reads the full cart record and computes fresh totals.
func (s *cartService) summarize(ctx context.Context, sessionID string) (*model.CartSummary, error) {
	items, err := s.store.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	summary := model.NewCartSummary(items)
	return &summary, nil
}
