package seeding

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"

	"github.com/comandaclub/comanda/internal/pos"
)

type demoItem struct {
	name     string
	price    float64
	category string
	prep     int
	spicy    bool
	veg      bool
}

var demoCategories = []string{"Sopas", "Arroces", "Tallarines", "Bebidas"}

var demoItems = []demoItem{
	{name: "Sopa Wantán", price: 12.00, category: "Sopas", prep: 10},
	{name: "Sopa Fuchifú", price: 14.00, category: "Sopas", prep: 12},
	{name: "Arroz Chaufa de Pollo", price: 18.50, category: "Arroces", prep: 15},
	{name: "Arroz Chaufa Especial", price: 24.00, category: "Arroces", prep: 18},
	{name: "Aeropuerto", price: 22.00, category: "Arroces", prep: 18},
	{name: "Tallarín Saltado de Pollo", price: 19.00, category: "Tallarines", prep: 15},
	{name: "Tallarín Saltado Especial", price: 25.00, category: "Tallarines", prep: 18, spicy: true},
	{name: "Tallarín con Verduras", price: 17.00, category: "Tallarines", prep: 14, veg: true},
	{name: "Inca Kola 500ml", price: 5.00, category: "Bebidas", prep: 1},
	{name: "Chicha Morada", price: 6.00, category: "Bebidas", prep: 2, veg: true},
}

const demoTableCount = 8

// Demo populates the catalog and the floor plan through the repository port.
// Running it against an already-seeded store is a no-op.
func Demo(ctx context.Context, repos pos.Repos, logger apt.Logger) error {
	existing, err := repos.Menu.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("check existing menu: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Menu already seeded, skipping", "items", len(existing))
		return nil
	}

	for i, name := range demoCategories {
		category := pos.NewCategory(name, i)
		if err := repos.Menu.SaveCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	for _, d := range demoItems {
		item := pos.NewMenuItem(d.name, d.price, d.category)
		item.PreparationTime = d.prep
		item.IsSpicy = d.spicy
		item.IsVegetarian = d.veg
		if err := repos.Menu.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("seed menu item %s: %w", d.name, err)
		}
	}

	tables, err := repos.Tables.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}
	if len(tables) == 0 {
		for number := 1; number <= demoTableCount; number++ {
			capacity := 4
			if number > 6 {
				capacity = 8
			}
			if err := repos.Tables.Save(ctx, pos.NewTable(number, capacity)); err != nil {
				return fmt.Errorf("seed table %d: %w", number, err)
			}
		}
	}

	logger.Info("Demo data seeded",
		"categories", len(demoCategories),
		"menu_items", len(demoItems),
		"tables", demoTableCount,
	)
	return nil
}
