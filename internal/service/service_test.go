package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return repo.New(db)
}

func createUser(t *testing.T, r *repo.GormRepo, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Address: "1 Test St", PasswordHash: "x"}
	require.NoError(t, r.DB.Create(&user).Error)
	return user
}

func createProductType(t *testing.T, r *repo.GormRepo, label string) models.ProductType {
	t.Helper()
	pt := models.ProductType{Label: label}
	require.NoError(t, r.DB.Create(&pt).Error)
	return pt
}

func createProduct(t *testing.T, r *repo.GormRepo, userID, typeID uint, title string, price float64, quantity int) models.Product {
	t.Helper()
	product := models.Product{
		Title:         title,
		Description:   "test product",
		Price:         price,
		Quantity:      quantity,
		UserID:        userID,
		City:          "Nashville",
		ProductTypeID: typeID,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return product
}

func createPaymentType(t *testing.T, r *repo.GormRepo, userID uint, description string) models.PaymentType {
	t.Helper()
	pt := models.PaymentType{Description: description, AccountNumber: "1234567890", UserID: userID}
	require.NoError(t, r.DB.Create(&pt).Error)
	return pt
}

func productQuantity(t *testing.T, r *repo.GormRepo, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, r.DB.First(&product, id).Error)
	return product.Quantity
}
