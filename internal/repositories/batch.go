package repositories

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrBatchClaimed  = errors.New("batch already claimed")
)

type BatchRepository interface {
	Create(batch *models.Batch) error
	FindByID(id uuid.UUID) (*models.Batch, error)
	Claim(id uuid.UUID) (*models.Batch, error)
	AppendRecord(id uuid.UUID, record models.CandidateRecord) error
	Complete(id uuid.UUID) error
	FindPending(limit int) ([]models.Batch, error)
}

// batchRepository keeps batches for the lifetime of the process only.
type batchRepository struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]*models.Batch
	order   []uuid.UUID
}

func NewBatchRepository() BatchRepository {
	return &batchRepository{
		batches: make(map[uuid.UUID]*models.Batch),
	}
}

func (r *batchRepository) Create(batch *models.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if _, exists := r.batches[batch.ID]; exists {
		return errors.New("batch already exists")
	}

	now := time.Now()
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now
	if batch.Status == "" {
		batch.Status = models.BatchQueued
	}

	stored := clone(batch)
	r.batches[batch.ID] = stored
	r.order = append(r.order, batch.ID)
	return nil
}

func (r *batchRepository) FindByID(id uuid.UUID) (*models.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch, ok := r.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return clone(batch), nil
}

// Claim moves a queued batch to processing and returns it. A batch that is
// already claimed yields ErrBatchClaimed.
func (r *batchRepository) Claim(id uuid.UUID) (*models.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	if batch.Status != models.BatchQueued {
		return nil, ErrBatchClaimed
	}
	batch.Status = models.BatchProcessing
	batch.UpdatedAt = time.Now()
	return clone(batch), nil
}

func (r *batchRepository) AppendRecord(id uuid.UUID, record models.CandidateRecord) error {
	return r.update(id, func(b *models.Batch) {
		b.Records = append(b.Records, record)
		b.Processed = len(b.Records)
	})
}

// Complete marks the batch done and releases the uploaded document bytes.
func (r *batchRepository) Complete(id uuid.UUID) error {
	return r.update(id, func(b *models.Batch) {
		b.Status = models.BatchCompleted
		for i := range b.Documents {
			b.Documents[i].Content = nil
		}
	})
}

// FindPending returns queued batches, oldest first.
func (r *batchRepository) FindPending(limit int) ([]models.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []models.Batch
	for _, id := range r.order {
		if limit > 0 && len(pending) >= limit {
			break
		}
		if b := r.batches[id]; b.Status == models.BatchQueued {
			pending = append(pending, *clone(b))
		}
	}
	return pending, nil
}

func (r *batchRepository) update(id uuid.UUID, fn func(b *models.Batch)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[id]
	if !ok {
		return ErrBatchNotFound
	}
	fn(batch)
	batch.UpdatedAt = time.Now()
	return nil
}

func clone(b *models.Batch) *models.Batch {
	c := *b
	c.Documents = append([]models.Document(nil), b.Documents...)
	c.Records = append([]models.CandidateRecord(nil), b.Records...)
	return &c
}
