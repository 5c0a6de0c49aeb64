package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchProductsByTitle does a substring match over product titles. Case
// sensitivity follows the backing store's LIKE semantics.
func (r *GormRepo) SearchProductsByTitle(ctx context.Context, q string) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("title LIKE ?", "%"+q+"%").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// TakeUnit decrements one unit of inventory. The quantity > 0 guard is in
// the WHERE clause, so concurrent callers racing for the last unit are
// serialized by the database; the loser sees taken == false.
func (r *GormRepo) TakeUnit(ctx context.Context, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity > 0", productID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReturnUnit puts one unit of inventory back.
func (r *GormRepo) ReturnUnit(ctx context.Context, productID uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetProductType(ctx context.Context, id uint) (*models.ProductType, error) {
	var pt models.ProductType
	if err := r.DB.WithContext(ctx).First(&pt, id).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *GormRepo) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var types []models.ProductType
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
