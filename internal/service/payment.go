package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

const (
	maxPaymentDescriptionLen = 55
	maxAccountNumberLen      = 20
)

type PaymentService struct {
	Repo *repo.GormRepo
}

func (s *PaymentService) CreatePaymentType(ctx context.Context, userID uint, description, accountNumber string) (*models.PaymentType, error) {
	description = strings.TrimSpace(description)
	accountNumber = strings.TrimSpace(accountNumber)

	if description == "" {
		return nil, fmt.Errorf("description is required: %w", ErrValidation)
	}
	if len(description) > maxPaymentDescriptionLen {
		return nil, fmt.Errorf("description must be at most %d characters: %w", maxPaymentDescriptionLen, ErrValidation)
	}
	if accountNumber == "" {
		return nil, fmt.Errorf("account number is required: %w", ErrValidation)
	}
	if len(accountNumber) > maxAccountNumberLen {
		return nil, fmt.Errorf("account number must be at most %d characters: %w", maxAccountNumberLen, ErrValidation)
	}

	pt := models.PaymentType{
		Description:   description,
		AccountNumber: accountNumber,
		UserID:        userID,
	}
	if err := s.Repo.CreatePaymentType(ctx, &pt); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *PaymentService) ListPaymentTypes(ctx context.Context, userID uint) ([]models.PaymentType, error) {
	return s.Repo.ListPaymentTypes(ctx, userID)
}

// DeletePaymentType removes a saved payment method. Orders paid with it
// are deleted in the same transaction, line items included, so no order
// is left pointing at a payment type that no longer exists.
func (s *PaymentService) DeletePaymentType(ctx context.Context, userID, paymentTypeID uint) error {
	return withConflictRetry(func() error {
		return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
			pt, err := tx.GetPaymentType(ctx, paymentTypeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("payment type %d: %w", paymentTypeID, ErrNotFound)
				}
				return err
			}
			if pt.UserID != userID {
				return fmt.Errorf("payment type %d: %w", paymentTypeID, ErrAuthorization)
			}

			orders, err := tx.OrdersByPaymentType(ctx, pt.ID)
			if err != nil {
				return err
			}
			for _, order := range orders {
				if err := tx.DeleteLineItemsByOrder(ctx, order.ID); err != nil {
					return err
				}
				if err := tx.DeleteOrder(ctx, order.ID); err != nil {
					return err
				}
			}

			return tx.DeletePaymentType(ctx, pt.ID)
		})
	})
}
