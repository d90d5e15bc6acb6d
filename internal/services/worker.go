package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(batchID uuid.UUID)
}

type worker struct {
	batchRepo    repositories.BatchRepository
	screener     ScreenerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewWorker runs queued batches. Each worker goroutine handles one batch at a
// time and the batch itself is screened sequentially.
func NewWorker(
	batchRepo repositories.BatchRepository,
	screener ScreenerService,
	concurrency int,
	queueSize int,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &worker{
		batchRepo:    batchRepo,
		screener:     screener,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: 10 * time.Second,
		logger:       logger.Named("worker"),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs()
}

// Stop implements Worker. A batch in progress is finished first.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("worker stopped")
	})
}

// EnqueueJob implements Worker. When the queue is full the batch stays queued
// in the repository and the poller picks it up later.
func (w *worker) EnqueueJob(batchID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue batch", zap.Stringer("batch", batchID))
		return
	default:
	}

	select {
	case w.jobQueue <- batchID:
		w.logger.Debug("batch enqueued", zap.Stringer("batch", batchID))
	default:
		w.logger.Warn("queue full, deferring batch to poller", zap.Stringer("batch", batchID))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("worker goroutine stopped")
			return
		case batchID := <-w.jobQueue:
			if err := w.processBatch(ctx, batchID); err != nil {
				if errors.Is(err, repositories.ErrBatchClaimed) {
					continue
				}
				log.Error("failed to process batch", zap.Stringer("batch", batchID), zap.Error(err))
			}
		}
	}
}

func (w *worker) processBatch(ctx context.Context, batchID uuid.UUID) error {
	batch, err := w.batchRepo.Claim(batchID)
	if err != nil {
		return err
	}

	log := w.logger.With(zap.Stringer("batch", batchID))
	log.Info("processing batch", zap.Int("documents", batch.Total()), zap.Bool("send_email", batch.SendEmail))

	records := w.screener.Run(ctx, batch.Documents, RunOptions{
		SendEmail: batch.SendEmail,
		OnRecord: func(done, total int, record models.CandidateRecord) {
			if err := w.batchRepo.AppendRecord(batchID, record); err != nil {
				log.Error("failed to store record", zap.String("file", record.Filename), zap.Error(err))
			}
			log.Debug("progress", zap.Int("done", done), zap.Int("total", total))
		},
	})

	if err := w.batchRepo.Complete(batchID); err != nil {
		return err
	}

	summary := Summarize(records)
	log.Info("batch completed",
		zap.Int("selected", summary.Selected),
		zap.Int("rejected", summary.Rejected),
	)
	return nil
}

func (w *worker) pollPendingJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			free := cap(w.jobQueue) - len(w.jobQueue)
			if free == 0 {
				continue
			}

			pending, err := w.batchRepo.FindPending(free)
			if err != nil {
				w.logger.Warn("failed to fetch pending batches", zap.Error(err))
				continue
			}

			for _, batch := range pending {
				w.EnqueueJob(batch.ID)
			}
		}
	}
}
