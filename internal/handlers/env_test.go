package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Secret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	r := repo.New(db)
	secret := []byte("test-secret")

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())

	deps := httpserver.Deps{
		DB:                 db,
		ProductHandler:     &handlers.ProductHandler{Svc: &service.CatalogService{Repo: r}},
		CartHandler:        &handlers.CartHandler{Svc: &service.OrderService{Repo: r}},
		PaymentTypeHandler: &handlers.PaymentTypeHandler{Svc: &service.PaymentService{Repo: r}},
		AuthMiddleware:     auth.Middleware(secret),
	}
	httpserver.Register(e, &deps)

	return &testEnv{E: e, DB: db, Repo: r, Secret: secret}
}

func (env *testEnv) accessCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(env.Secret)
	require.NoError(t, err)

	return &http.Cookie{Name: "accessToken", Value: signed, Path: "/"}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Address: "1 Test St", PasswordHash: "x"}
	require.NoError(t, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createProduct(t *testing.T, userID uint, title string, price float64, quantity int) models.Product {
	t.Helper()

	ptype := models.ProductType{Label: "Misc"}
	require.NoError(t, env.DB.Where(models.ProductType{Label: "Misc"}).FirstOrCreate(&ptype).Error)

	product := models.Product{
		Title:         title,
		Description:   "test product",
		Price:         price,
		Quantity:      quantity,
		UserID:        userID,
		City:          "Nashville",
		ProductTypeID: ptype.ID,
	}
	require.NoError(t, env.DB.Create(&product).Error)
	return product
}

func (env *testEnv) createPaymentType(t *testing.T, userID uint, description string) models.PaymentType {
	t.Helper()
	pt := models.PaymentType{Description: description, AccountNumber: "123", UserID: userID}
	require.NoError(t, env.DB.Create(&pt).Error)
	return pt
}
