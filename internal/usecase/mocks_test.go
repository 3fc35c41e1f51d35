//go:build !integration

package usecase_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hostbill-payments/internal/domain"
	"hostbill-payments/internal/domain/model"
	"hostbill-payments/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// memOrderRepo is a small in-memory implementation used by unit tests. Its
// TransitionIfPending mirrors the conditional-update semantics of the real
// store: only a pending order moves, and only one caller sees applied=true.
type memOrderRepo struct {
	mu        sync.Mutex
	store     map[string]*model.Order
	createErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

func (m *memOrderRepo) Create(ctx context.Context, qx repository.Tx, o *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) SetTxnRef(ctx context.Context, qx repository.Tx, orderID, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.TxnRef = ref
	return nil
}

func (m *memOrderRepo) TransitionIfPending(ctx context.Context, qx repository.Tx, orderID string, outcome model.OrderStatus, paidAt *time.Time) (bool, error) {
	if !outcome.Terminal() {
		return false, domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[orderID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = outcome
	o.UpdatedAt = time.Now()
	if paidAt != nil {
		cp := *paidAt
		o.PaidAt = &cp
	}
	return true, nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, qx repository.Tx, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByTxnRef(ctx context.Context, qx repository.Tx, ref string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.store {
		if o.TxnRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) ListPendingOlderThan(ctx context.Context, qx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(olderThan) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) FindByID(ctx context.Context, qx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Save(ctx context.Context, qx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) UpdatePlan(ctx context.Context, qx repository.Tx, userID string, plan model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Plan = plan
	u.UpdatedAt = time.Now()
	return nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	records []*model.AuditRecord
}

func newMemAuditRepo() *memAuditRepo { return &memAuditRepo{} }

func (m *memAuditRepo) Append(ctx context.Context, qx repository.Tx, rec *model.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memAuditRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memNotificationRepo struct {
	mu    sync.Mutex
	items []*model.Notification
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (m *memNotificationRepo) Append(ctx context.Context, qx repository.Tx, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *memNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memStatusCache struct {
	mu    sync.Mutex
	store map[string]model.OrderStatus
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{store: make(map[string]model.OrderStatus)}
}

func (m *memStatusCache) GetStatus(ctx context.Context, userID, orderID string) (model.OrderStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[userID+":"+orderID]
	return s, ok
}

func (m *memStatusCache) SetStatus(ctx context.Context, userID, orderID string, status model.OrderStatus) {
	if !status.Terminal() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID+":"+orderID] = status
}

// memTxManager runs the callback without a real transaction; the mocks
// ignore the qx handle anyway.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}
