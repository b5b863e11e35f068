package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"orderms/internal/models"
	"orderms/internal/repositories"
	"orderms/internal/services"
)

// seedData initializes roles, default users and demo products. It is
// idempotent: existing rows are left alone.
func seedData(authService *services.AuthService, roleRepo repositories.RoleRepository, productRepo repositories.ProductRepository) error {
	ctx := context.Background()

	for _, name := range []string{models.RoleAdmin, models.RoleCustomer} {
		if _, err := roleRepo.GetByName(ctx, name); err != nil {
			if err := roleRepo.Create(ctx, &models.Role{Name: name}); err != nil {
				return err
			}
			log.Printf("Created role: %s", name)
		}
	}

	seedUser(ctx, authService, "admin@orderflow.com", "admin123", "Admin", models.RoleAdmin)
	seedUser(ctx, authService, "rodrigo.perez@orderflow.com", "password123", "Rodrigo Perez", models.RoleCustomer)
	seedUser(ctx, authService, "andrea.torrez@orderflow.com", "password123", "Andrea Torrez", models.RoleCustomer)
	seedUser(ctx, authService, "jorge.robles@orderflow.com", "password123", "Jorge Robles", models.RoleCustomer)

	count, err := productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Laptop Pro 16", Price: decimal.RequireFromString("1899.99"), Stock: 12},
		{Name: "Wireless Mouse", Price: decimal.RequireFromString("24.50"), Stock: 80},
		{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("89.90"), Stock: 35},
		{Name: "USB-C Hub", Price: decimal.RequireFromString("39.00"), Stock: 50},
		{Name: "External Monitor 27in", Price: decimal.RequireFromString("249.00"), Stock: 20},
		{Name: "Bluetooth Headphones", Price: decimal.RequireFromString("59.95"), Stock: 40},
		{Name: "Portable Charger", Price: decimal.RequireFromString("19.99"), Stock: 100},
		{Name: "Standing Desk", Price: decimal.RequireFromString("399.00"), Stock: 8},
		{Name: "Webcam HD", Price: decimal.RequireFromString("45.00"), Stock: 25},
		{Name: "Desk Lamp LED", Price: decimal.RequireFromString("17.25"), Stock: 60},
	}
	for i := range products {
		if err := productRepo.Create(ctx, &products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
	log.Printf("Seeded %d products", len(products))
	return nil
}

func seedUser(ctx context.Context, authService *services.AuthService, email, password, name, role string) {
	if _, err := authService.FindByEmail(ctx, email); err == nil {
		return
	}
	if _, err := authService.CreateUser(ctx, email, password, name, role); err != nil {
		log.Printf("Error seeding user %s: %v", email, err)
		return
	}
	log.Printf("Created %s user: %s", role, email)
}
