package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// OpenOrder resolves the user's single open order, i.e. the one with no
// payment type and no completion date. gorm.ErrRecordNotFound when the
// user has no cart.
func (r *GormRepo) OpenOrder(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND payment_type_id IS NULL AND date_completed IS NULL", userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserOrder looks an order up by id, filtered on the owning user id
// server-side so a supplied id can never reach another user's order.
func (r *GormRepo) GetUserOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Order{}, id).Error
}

// CompleteOrder stamps the payment type and completion date in one guarded
// UPDATE. The open-state preconditions sit in the WHERE clause, so a second
// checkout of the same order affects zero rows.
func (r *GormRepo) CompleteOrder(ctx context.Context, orderID, userID, paymentTypeID uint, completed time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND payment_type_id IS NULL AND date_completed IS NULL", orderID, userID).
		Updates(map[string]any{
			"payment_type_id": paymentTypeID,
			"date_completed":  completed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListOrders returns every order belonging to the user, newest first.
func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_created DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrdersByPaymentType(ctx context.Context, paymentTypeID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("payment_type_id = ?", paymentTypeID).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) CreateLineItem(ctx context.Context, item *models.OrderLineItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetLineItem(ctx context.Context, id uint) (*models.OrderLineItem, error) {
	var item models.OrderLineItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) LineItems(ctx context.Context, orderID uint) ([]models.OrderLineItem, error) {
	var items []models.OrderLineItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountLineItems(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Where("order_id = ?", orderID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountLineItemsByProduct counts line items across all orders that still
// reference the product. Used to restrict product deletion.
func (r *GormRepo) CountLineItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Where("product_id = ?", productID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) DeleteLineItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.OrderLineItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteLineItemsByOrder(ctx context.Context, orderID uint) error {
	return r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderLineItem{}).Error
}
