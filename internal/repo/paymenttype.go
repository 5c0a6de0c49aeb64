package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreatePaymentType(ctx context.Context, pt *models.PaymentType) error {
	return r.DB.WithContext(ctx).Create(pt).Error
}

func (r *GormRepo) GetPaymentType(ctx context.Context, id uint) (*models.PaymentType, error) {
	var pt models.PaymentType
	if err := r.DB.WithContext(ctx).First(&pt, id).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *GormRepo) ListPaymentTypes(ctx context.Context, userID uint) ([]models.PaymentType, error) {
	var types []models.PaymentType
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_created ASC, id ASC").
		Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormRepo) DeletePaymentType(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.PaymentType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
