package pos

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// MenuItem is a catalog entry managed by the admin role. Orders never point
// at a MenuItem directly; they snapshot name and price at add time.
type MenuItem struct {
	ID              uuid.UUID `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Price           float64   `json:"price" bson:"price"`
	Category        string    `json:"category" bson:"category"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	Available       bool      `json:"available" bson:"available"`
	PreparationTime int       `json:"preparation_time" bson:"preparation_time"`
	IsSpicy         bool      `json:"is_spicy" bson:"is_spicy"`
	IsVegetarian    bool      `json:"is_vegetarian" bson:"is_vegetarian"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *MenuItem) GetID() uuid.UUID {
	return m.ID
}

func (m *MenuItem) ResourceType() string {
	return "menu-item"
}

func NewMenuItem(name string, price float64, category string) *MenuItem {
	item := &MenuItem{
		ID:        apt.GenerateNewID(),
		Name:      name,
		Price:     price,
		Category:  category,
		Available: true,
	}
	item.BeforeCreate()
	return item
}

func (m *MenuItem) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

func (m *MenuItem) BeforeCreate() {
	m.EnsureID()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
}

func (m *MenuItem) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}

// Category names form the valid set for MenuItem.Category. Categories are
// created by the admin and never deleted in-flow.
type Category struct {
	ID       uuid.UUID `json:"id" bson:"_id"`
	Name     string    `json:"name" bson:"name"`
	Position int       `json:"position" bson:"position"`
}

func (c *Category) GetID() uuid.UUID {
	return c.ID
}

func (c *Category) ResourceType() string {
	return "category"
}

func NewCategory(name string, position int) *Category {
	return &Category{
		ID:       apt.GenerateNewID(),
		Name:     name,
		Position: position,
	}
}

// addMenuItem registers a catalog entry. The category must already exist.
func addMenuItem(s *State, item *MenuItem) (*MenuItem, []Effect, error) {
	if item.Name == "" {
		return nil, nil, validationErr("name", "menu item name is required")
	}
	if item.Price < 0 {
		return nil, nil, validationErr("price", "price cannot be negative")
	}
	if !s.hasCategory(item.Category) {
		return nil, nil, validationErr("category", "unknown category")
	}

	item.BeforeCreate()
	s.MenuItems = append(s.MenuItems, item)
	return item, []Effect{PersistMenuItem{Item: *item}}, nil
}

// updateMenuItem replaces an existing catalog entry. Identity is immutable;
// only the admin edits these, and open orders keep their snapshots.
func updateMenuItem(s *State, item *MenuItem) ([]Effect, error) {
	if item.Price < 0 {
		return nil, validationErr("price", "price cannot be negative")
	}
	if !s.hasCategory(item.Category) {
		return nil, validationErr("category", "unknown category")
	}

	existing := s.menuItemByID(item.ID)
	if existing == nil {
		return nil, ErrNotFound
	}

	item.CreatedAt = existing.CreatedAt
	item.BeforeUpdate()
	*existing = *item
	return []Effect{PersistMenuItem{Item: *existing}}, nil
}

// toggleAvailability flips whether an item can be ordered right now.
func toggleAvailability(s *State, id uuid.UUID) ([]Effect, error) {
	item := s.menuItemByID(id)
	if item == nil {
		return nil, ErrNotFound
	}

	item.Available = !item.Available
	item.BeforeUpdate()
	return []Effect{PersistMenuItem{Item: *item}}, nil
}

// deleteMenuItem removes a catalog entry.
func deleteMenuItem(s *State, id uuid.UUID) ([]Effect, error) {
	for i, item := range s.MenuItems {
		if item.ID == id {
			s.MenuItems = append(s.MenuItems[:i], s.MenuItems[i+1:]...)
			return []Effect{DeleteMenuItem{ID: id}}, nil
		}
	}
	return nil, ErrNotFound
}

// addCategory extends the valid category set. There is no delete operation;
// removing a category in use would orphan catalog entries.
func addCategory(s *State, name string) (*Category, []Effect, error) {
	if name == "" {
		return nil, nil, validationErr("name", "category name is required")
	}
	if s.hasCategory(name) {
		return nil, nil, validationErr("name", "category already exists")
	}

	category := NewCategory(name, len(s.Categories))
	s.Categories = append(s.Categories, category)
	return category, []Effect{PersistCategory{Category: *category}}, nil
}
