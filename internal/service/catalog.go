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
	maxTitleLen       = 55
	maxDescriptionLen = 255
	maxCityLen        = 55
	maxImagePathLen   = 55
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type ProductInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	City          string  `json:"city"`
	ImagePath     string  `json:"image_path"`
	ProductTypeID uint    `json:"product_type_id"`
}

type ProductPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	City        *string  `json:"city"`
	ImagePath   *string  `json:"image_path"`
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	return s.Repo.ListProductTypes(ctx)
}

// SearchProducts is the plain catalog search, a substring match over
// product titles.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.Repo.SearchProductsByTitle(ctx, query)
}

func (s *CatalogService) CreateProduct(ctx context.Context, userID uint, in ProductInput) (*models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetProductType(ctx, in.ProductTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("choose a product category: %w", ErrValidation)
		}
		return nil, err
	}

	product := models.Product{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Quantity:      in.Quantity,
		UserID:        userID,
		City:          strings.TrimSpace(in.City),
		ImagePath:     strings.TrimSpace(in.ImagePath),
		ProductTypeID: in.ProductTypeID,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, userID, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if product.UserID != userID {
		return nil, fmt.Errorf("product %d: %w", id, ErrAuthorization)
	}

	if patch.Title != nil {
		product.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		product.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, fmt.Errorf("quantity must not be negative: %w", ErrValidation)
		}
		product.Quantity = *patch.Quantity
	}
	if patch.City != nil {
		product.City = strings.TrimSpace(*patch.City)
	}
	if patch.ImagePath != nil {
		product.ImagePath = strings.TrimSpace(*patch.ImagePath)
	}

	if err := validateProductInput(ProductInput{
		Title:         product.Title,
		Description:   product.Description,
		Price:         product.Price,
		Quantity:      max(product.Quantity, 1),
		City:          product.City,
		ImagePath:     product.ImagePath,
		ProductTypeID: product.ProductTypeID,
	}); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a listing. Deletion is restricted while any
// order still references the product: a buyer's cart must never be left
// pointing at a product that no longer exists.
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, id uint) error {
	return s.Repo.WithinTx(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", id, ErrNotFound)
			}
			return err
		}
		if product.UserID != userID {
			return fmt.Errorf("product %d: %w", id, ErrAuthorization)
		}

		refs, err := tx.CountLineItemsByProduct(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("product %d is attached to an order: %w", id, ErrConflict)
		}

		return tx.DeleteProduct(ctx, id)
	})
}

func validateProductInput(in ProductInput) error {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return fmt.Errorf("title is required: %w", ErrValidation)
	case len(title) > maxTitleLen:
		return fmt.Errorf("please shorten the product title to %d characters: %w", maxTitleLen, ErrValidation)
	}

	description := strings.TrimSpace(in.Description)
	switch {
	case description == "":
		return fmt.Errorf("description is required: %w", ErrValidation)
	case len(description) > maxDescriptionLen:
		return fmt.Errorf("description must be at most %d characters: %w", maxDescriptionLen, ErrValidation)
	}

	if in.Price <= 0 {
		return fmt.Errorf("price must be more than 0: %w", ErrValidation)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("item quantity must be more than 0: %w", ErrValidation)
	}

	city := strings.TrimSpace(in.City)
	switch {
	case city == "":
		return fmt.Errorf("please set a city: %w", ErrValidation)
	case len(city) > maxCityLen:
		return fmt.Errorf("city must be at most %d characters: %w", maxCityLen, ErrValidation)
	}

	if len(strings.TrimSpace(in.ImagePath)) > maxImagePathLen {
		return fmt.Errorf("image path must be at most %d characters: %w", maxImagePathLen, ErrValidation)
	}

	if in.ProductTypeID == 0 {
		return fmt.Errorf("choose a product category: %w", ErrValidation)
	}
	return nil
}
