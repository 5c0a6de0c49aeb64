// Command seed provisions reference data and demo accounts: product types,
// a couple of users, and a starter catalog. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	log.Println("seed complete")
}

func seed(db *gorm.DB) error {
	labels := []string{"Electronics", "Appliances", "Housewares", "Sporting Goods", "Tools"}
	types := make([]models.ProductType, 0, len(labels))
	for _, label := range labels {
		pt := models.ProductType{Label: label}
		if err := db.Where(models.ProductType{Label: label}).FirstOrCreate(&pt).Error; err != nil {
			return err
		}
		types = append(types, pt)
	}

	users := []struct {
		name, address, password string
	}{
		{"Ada Demo", "100 Main St, Nashville", "demo-password-1"},
		{"Graham Demo", "200 Broad Ave, Nashville", "demo-password-2"},
	}
	seededUsers := make([]models.User, 0, len(users))
	for _, u := range users {
		pwHash, err := hash.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := models.User{Name: u.name, Address: u.address, PasswordHash: pwHash}
		if err := db.Where(models.User{Name: u.name}).
			Attrs(models.User{Address: u.address, PasswordHash: pwHash}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}
		seededUsers = append(seededUsers, user)
	}

	products := []models.Product{
		{Title: "Kite", Description: "A red kite", Price: 9.99, Quantity: 10, City: "Nashville", ImagePath: "kite.png", ProductTypeID: types[3].ID, UserID: seededUsers[0].ID},
		{Title: "Blender", Description: "Counter-top blender, 600W", Price: 34.50, Quantity: 5, City: "Nashville", ImagePath: "blender.png", ProductTypeID: types[1].ID, UserID: seededUsers[0].ID},
		{Title: "Cordless Drill", Description: "18V drill with two batteries", Price: 79.00, Quantity: 3, City: "Memphis", ImagePath: "drill.png", ProductTypeID: types[4].ID, UserID: seededUsers[1].ID},
	}
	for _, p := range products {
		var existing models.Product
		err := db.Where("title = ? AND user_id = ?", p.Title, p.UserID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
