package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	published   []publishedMsg
}

type publishedMsg struct {
	Topic string
	Body  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMsg{Topic: topic, Body: msg})
	return nil
}

func (m *MockPublisher) Published(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]byte
	for _, p := range m.published {
		if p.Topic == topic {
			out = append(out, p.Body)
		}
	}
	return out
}

// MockTableRepo is a mock implementation of TableRepo for testing
type MockTableRepo struct {
	mu       sync.RWMutex
	tables   map[uuid.UUID]*Table
	ListFunc func(ctx context.Context) ([]*Table, error)
	SaveFunc func(ctx context.Context, table *Table) error
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{tables: make(map[uuid.UUID]*Table)}
}

func (m *MockTableRepo) List(ctx context.Context) ([]*Table, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, t := range m.tables {
		result = append(result, cloneTable(t))
	}
	return result, nil
}

func (m *MockTableRepo) Save(ctx context.Context, table *Table) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = cloneTable(table)
	return nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[id]; !ok {
		return fmt.Errorf("table not found")
	}
	delete(m.tables, id)
	return nil
}

func (m *MockTableRepo) Get(id uuid.UUID) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[id]
}

// MockOrderRepo is a mock implementation of OrderRepo for testing
type MockOrderRepo struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*Order
	ListFunc func(ctx context.Context) ([]*Order, error)
	SaveFunc func(ctx context.Context, order *Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{orders: make(map[uuid.UUID]*Order)}
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		result = append(result, cloneOrder(o))
	}
	return result, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) Get(id uuid.UUID) *Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// MockMenuRepo is a mock implementation of MenuRepo for testing
type MockMenuRepo struct {
	mu         sync.RWMutex
	items      map[uuid.UUID]*MenuItem
	categories map[uuid.UUID]*Category
}

func NewMockMenuRepo() *MockMenuRepo {
	return &MockMenuRepo{
		items:      make(map[uuid.UUID]*MenuItem),
		categories: make(map[uuid.UUID]*Category),
	}
}

func (m *MockMenuRepo) ListItems(ctx context.Context) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*MenuItem
	for _, it := range m.items {
		c := *it
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockMenuRepo) SaveItem(ctx context.Context, item *MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *item
	m.items[item.ID] = &c
	return nil
}

func (m *MockMenuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("menu item not found")
	}
	delete(m.items, id)
	return nil
}

func (m *MockMenuRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Category
	for _, c := range m.categories {
		cc := *c
		result = append(result, &cc)
	}
	return result, nil
}

func (m *MockMenuRepo) SaveCategory(ctx context.Context, category *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *category
	m.categories[category.ID] = &c
	return nil
}

// MockCashRegisterRepo is a mock implementation of CashRegisterRepo for testing
type MockCashRegisterRepo struct {
	mu        sync.RWMutex
	registers map[uuid.UUID]*CashRegister
}

func NewMockCashRegisterRepo() *MockCashRegisterRepo {
	return &MockCashRegisterRepo{registers: make(map[uuid.UUID]*CashRegister)}
}

func (m *MockCashRegisterRepo) GetCurrentOpen(ctx context.Context) (*CashRegister, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *CashRegister
	for _, r := range m.registers {
		if !r.IsOpen {
			continue
		}
		if latest == nil || r.OpenedAt.After(latest.OpenedAt) {
			latest = r
		}
	}
	return cloneRegister(latest), nil
}

func (m *MockCashRegisterRepo) Create(ctx context.Context, register *CashRegister) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers[register.ID] = cloneRegister(register)
	return nil
}

func (m *MockCashRegisterRepo) Save(ctx context.Context, register *CashRegister) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registers[register.ID]; !ok {
		return fmt.Errorf("cash register not found")
	}
	m.registers[register.ID] = cloneRegister(register)
	return nil
}

func (m *MockCashRegisterRepo) AddSale(ctx context.Context, id uuid.UUID, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registers[id]
	if !ok || !r.IsOpen {
		return fmt.Errorf("no open cash register with id %s", id)
	}
	r.CurrentAmount += amount
	r.TotalSales += amount
	return nil
}

func (m *MockCashRegisterRepo) Get(id uuid.UUID) *CashRegister {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRegister(m.registers[id])
}

func newMockRepos() (Repos, *MockTableRepo, *MockOrderRepo, *MockMenuRepo, *MockCashRegisterRepo) {
	tables := NewMockTableRepo()
	orders := NewMockOrderRepo()
	menu := NewMockMenuRepo()
	register := NewMockCashRegisterRepo()
	return Repos{
		Tables:   tables,
		Orders:   orders,
		Menu:     menu,
		Register: register,
	}, tables, orders, menu, register
}

// Fixtures shared across the package tests.

var testTime = time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)

func testMenuItem(name string, price float64) *MenuItem {
	return &MenuItem{
		ID:        apt.GenerateNewID(),
		Name:      name,
		Price:     price,
		Category:  "Platos",
		Available: true,
	}
}

func testState() *State {
	s := newState()
	s.Categories = []*Category{{ID: apt.GenerateNewID(), Name: "Platos", Position: 0}}
	return s
}

// testStateWithTable returns a state holding one libre table and a small menu.
func testStateWithTable(number int) (*State, *Table, *MenuItem) {
	s := testState()
	item := testMenuItem("Arroz Chaufa", 18.50)
	s.MenuItems = []*MenuItem{item}
	table := NewTable(number, 4)
	s.Tables = []*Table{table}
	return s, table, item
}

func openTestRegister(s *State, initial float64) *CashRegister {
	register, _, err := openRegister(s, initial, "cajero", false, testTime)
	if err != nil {
		panic(err)
	}
	return register
}

// submitTestOrder creates an open order for the table through the regular
// transition so tests exercise the same path as production.
func submitTestOrder(s *State, table *Table, item *MenuItem, quantity int) *Order {
	oi := NewOrderItem(item, quantity, "")
	if _, err := stageItem(s, table.ID, oi, "Carlos", testTime); err != nil {
		panic(err)
	}
	order, _, err := createOrder(s, table.Number, table.CurrentOrder, "w1", "Carlos", 2, testTime)
	if err != nil {
		panic(err)
	}
	return order
}

func hasEffect[T Effect](effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(T); ok {
			return true
		}
	}
	return false
}
