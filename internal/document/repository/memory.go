package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inksign/inksign/internal/document"
)

// Repository provides document persistence. Sign must be atomic: of two
// concurrent calls on an UNSIGNED document exactly one succeeds, the other
// observes document.ErrAlreadySigned.
type Repository interface {
	Create(ctx context.Context, doc *document.Document) (string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error)
	Sign(ctx context.Context, id string, rec *document.SignatureRecord) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepo is an in-memory repository used when no MongoDB is configured
// and in unit tests. Insertion order is preserved for listings.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.Document)}
}

func (m *MemoryRepo) Create(ctx context.Context, doc *document.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == "" {
		doc.ID = fmt.Sprintf("doc_%d", time.Now().UnixNano())
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	cp := *doc
	m.store[cp.ID] = &cp
	m.order = append(m.order, cp.ID)
	return cp.ID, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, document.ErrNotFound
}

func (m *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, id := range m.order {
		if d, ok := m.store[id]; ok && d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Sign applies the UNSIGNED -> SIGNED transition as a single check-and-set
// under the write lock.
func (m *MemoryRepo) Sign(ctx context.Context, id string, rec *document.SignatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return document.ErrNotFound
	}
	if d.Status == document.StatusSigned {
		return document.ErrAlreadySigned
	}
	cp := *rec
	d.Status = document.StatusSigned
	d.Signature = &cp
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return document.ErrNotFound
	}
	delete(m.store, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
