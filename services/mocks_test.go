package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"github.com/BekmurodFoziloff/e-commerce/sender"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memCache is an in-memory cache.Store used by the service tests.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *memCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type mockProductRepo struct {
	products map[string]*models.Product
}

func newMockProductRepo(products ...*models.Product) *mockProductRepo {
	repo := &mockProductRepo{products: make(map[string]*models.Product)}
	for _, p := range products {
		repo.products[p.ID.Hex()] = p
	}
	return repo
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := m.products[id.Hex()]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	found := []models.Product{}
	for _, id := range ids {
		if p, ok := m.products[id.Hex()]; ok {
			found = append(found, *p)
		}
	}
	return found, nil
}

type mockOrderRepo struct {
	orders     map[string]*models.Order
	findCalls  int
	lastFilter repository.OrderFilter
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	m.orders[order.ID.Hex()] = &copied
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.findCalls++
	if o, ok := m.orders[id.Hex()]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) FindAll(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	m.findCalls++
	m.lastFilter = filter
	orders := []models.Order{}
	for _, o := range m.orders {
		if o.Customer == filter.Customer {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateProducts(_ context.Context, id primitive.ObjectID, products []models.OrderProduct, subTotalPrice float64) (*models.Order, error) {
	o, ok := m.orders[id.Hex()]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Products = products
	o.SubTotalPrice = subTotalPrice
	o.UpdatedAt = time.Now()
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o, ok := m.orders[id.Hex()]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := m.orders[id.Hex()]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	delete(m.orders, id.Hex())
	return o, nil
}

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID.Hex()] = u
	}
	return repo
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := m.users[id.Hex()]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type mockSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *mockSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return sender.SendResult{MessageID: "mock", SentAt: time.Now()}, nil
}

type mockPaymentRepo struct {
	payments map[string]*models.Payment
	created  []*models.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	copied := *payment
	m.payments[payment.PaymentID] = &copied
	m.created = append(m.created, &copied)
	return nil
}

func (m *mockPaymentRepo) FindByChargeID(_ context.Context, chargeID string) (*models.Payment, error) {
	if p, ok := m.payments[chargeID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrPaymentNotFound
}

func (m *mockPaymentRepo) FindAllByCustomer(_ context.Context, customer primitive.ObjectID, _ int) ([]models.Payment, error) {
	payments := []models.Payment{}
	for _, p := range m.payments {
		if p.Customer == customer {
			payments = append(payments, *p)
		}
	}
	return payments, nil
}

type mockGateway struct {
	lastReq *ChargeRequest
	result  *ChargeResult
	err     error
}

func (m *mockGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
