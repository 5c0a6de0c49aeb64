package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// OrderService is the cart/order engine. The open order doubles as the
// user's cart; every operation takes the caller's user id explicitly and
// filters on it server-side.
type OrderService struct {
	Repo *repo.GormRepo
}

// CartLineItem is one unit of one product, priced at the product's
// current price.
type CartLineItem struct {
	LineItemID uint    `json:"line_item_id"`
	ProductID  uint    `json:"product_id"`
	Title      string  `json:"title"`
	Cost       float64 `json:"cost"`
	Units      int     `json:"units"`
}

type CartView struct {
	Order *models.Order  `json:"order,omitempty"`
	Items []CartLineItem `json:"items"`
	Total float64        `json:"total"`
}

// AddProduct appends one unit of the product to the caller's open order,
// creating the order first when there is none, and takes one unit off the
// product's inventory. Line item and inventory move in one transaction.
func (s *OrderService) AddProduct(ctx context.Context, userID, productID uint) (*models.Order, error) {
	var order *models.Order

	err := withConflictRetry(func() error {
		return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
			if _, err := tx.GetProduct(ctx, productID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", productID, ErrNotFound)
				}
				return err
			}

			taken, err := tx.TakeUnit(ctx, productID)
			if err != nil {
				return err
			}
			if !taken {
				return fmt.Errorf("product %d is out of stock: %w", productID, ErrInsufficientInventory)
			}

			o, err := getOrCreateOpenOrder(ctx, tx, userID)
			if err != nil {
				return err
			}

			item := models.OrderLineItem{OrderID: o.ID, ProductID: productID}
			if err := tx.CreateLineItem(ctx, &item); err != nil {
				return err
			}

			order = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveLineItem returns one unit of inventory and deletes the line item.
// When the order becomes empty it is deleted too, and nil is returned.
func (s *OrderService) RemoveLineItem(ctx context.Context, userID, lineItemID uint) (*models.Order, error) {
	var order *models.Order

	err := withConflictRetry(func() error {
		return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
			item, err := tx.GetLineItem(ctx, lineItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("line item %d: %w", lineItemID, ErrNotFound)
				}
				return err
			}

			o, err := tx.GetOrder(ctx, item.OrderID)
			if err != nil {
				return err
			}
			if o.UserID != userID {
				return fmt.Errorf("line item %d: %w", lineItemID, ErrAuthorization)
			}

			if err := tx.ReturnUnit(ctx, item.ProductID); err != nil {
				return err
			}
			if err := tx.DeleteLineItem(ctx, item.ID); err != nil {
				return err
			}

			remaining, err := tx.CountLineItems(ctx, o.ID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				order = nil
				return tx.DeleteOrder(ctx, o.ID)
			}
			order = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder restores one unit of inventory per line item, then deletes
// the items and the order.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	return withConflictRetry(func() error {
		return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
			order, err := tx.GetOrder(ctx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
				}
				return err
			}
			if order.UserID != userID {
				return fmt.Errorf("order %d: %w", orderID, ErrAuthorization)
			}

			items, err := tx.LineItems(ctx, order.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := tx.ReturnUnit(ctx, item.ProductID); err != nil {
					return err
				}
			}

			if err := tx.DeleteLineItemsByOrder(ctx, order.ID); err != nil {
				return err
			}
			return tx.DeleteOrder(ctx, order.ID)
		})
	})
}

// Checkout attaches the payment type and stamps the completion date,
// transitioning the order to completed. Completing an already completed
// order is a conflict, never a silent overwrite.
func (s *OrderService) Checkout(ctx context.Context, userID, orderID uint, paymentTypeID uint) (*models.Order, error) {
	if paymentTypeID == 0 {
		return nil, fmt.Errorf("choose a payment type: %w", ErrValidation)
	}

	var order *models.Order

	err := withConflictRetry(func() error {
		return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
			pt, err := tx.GetPaymentType(ctx, paymentTypeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("payment type %d does not exist: %w", paymentTypeID, ErrValidation)
				}
				return err
			}
			if pt.UserID != userID {
				return fmt.Errorf("payment type %d is not yours: %w", paymentTypeID, ErrValidation)
			}

			o, err := tx.GetOrder(ctx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
				}
				return err
			}
			if o.UserID != userID {
				return fmt.Errorf("order %d: %w", orderID, ErrAuthorization)
			}
			if o.PaymentTypeID != nil || o.DateCompleted != nil {
				return fmt.Errorf("order %d is already completed: %w", orderID, ErrConflict)
			}

			completed, err := tx.CompleteOrder(ctx, orderID, userID, paymentTypeID, time.Now().UTC())
			if err != nil {
				return err
			}
			if !completed {
				// The open-state check above passed, so the guarded update
				// lost to a checkout that landed in between.
				return fmt.Errorf("order %d: %w", orderID, errLostRace)
			}

			order, err = tx.GetOrder(ctx, orderID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the caller's order history, open order included,
// newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// GetCart returns the order together with its line items, each priced at
// the product's current price with Units fixed at 1. With no orderID it
// resolves the caller's open order; an empty cart is not an error.
func (s *OrderService) GetCart(ctx context.Context, userID uint, orderID *uint) (*CartView, error) {
	var order *models.Order
	var err error

	if orderID == nil {
		order, err = s.Repo.OpenOrder(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &CartView{Items: []CartLineItem{}}, nil
			}
			return nil, err
		}
	} else {
		order, err = s.Repo.GetUserOrder(ctx, userID, *orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("order %d: %w", *orderID, ErrNotFound)
			}
			return nil, err
		}
	}

	items, err := s.Repo.LineItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	view := CartView{Order: order, Items: make([]CartLineItem, 0, len(items))}
	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		view.Items = append(view.Items, CartLineItem{
			LineItemID: item.ID,
			ProductID:  product.ID,
			Title:      product.Title,
			Cost:       product.Price,
			Units:      1,
		})
		view.Total += product.Price
	}
	return &view, nil
}

// getOrCreateOpenOrder is the one place the "current open order" query
// lives; every engine call that needs the cart goes through it. The
// partial unique index on orders backs it up: when two transactions
// race past the lookup, one insert hits the index and the caller's
// retry finds the winner's order.
func getOrCreateOpenOrder(ctx context.Context, tx *repo.GormRepo, userID uint) (*models.Order, error) {
	order, err := tx.OpenOrder(ctx, userID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Order{UserID: userID}
	if err := tx.CreateOrder(ctx, &created); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("open order for user %d: %w", userID, errLostRace)
		}
		return nil, err
	}
	return &created, nil
}
