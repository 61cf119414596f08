package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type JobType string

const (
	JobStockDecrement JobType = "stock.decrement"
	JobObjectDelete   JobType = "object.delete"
)

// Job is a side effect that runs after the response was sent.
type Job struct {
	Type      JobType `json:"type"`
	ProductID string  `json:"productId,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	ObjectKey string  `json:"objectKey,omitempty"`
	OrderID   string  `json:"orderId,omitempty"`
	Attempt   int     `json:"attempt"`
}

type JobDispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// IsPermanent reports failures that retrying cannot fix.
func IsPermanent(err error) bool {
	return errors.Is(err, repo.ErrInsufficientStock) ||
		errors.Is(err, repo.ErrNotFound) ||
		errors.Is(err, ErrUnknownJob)
}

// JobRunner executes jobs against the stores and decides on retries.
type JobRunner struct {
	Products    repo.ProductRepository
	Objects     ObjectStore
	Logger      *logrus.Logger
	MaxAttempts int
}

func NewJobRunner(products repo.ProductRepository, objects ObjectStore, logger *logrus.Logger, maxAttempts int) *JobRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &JobRunner{Products: products, Objects: objects, Logger: logger, MaxAttempts: maxAttempts}
}

func (r *JobRunner) Run(ctx context.Context, job Job) error {
	switch job.Type {
	case JobStockDecrement:
		return r.Products.DecrementStock(ctx, job.ProductID, job.Quantity)
	case JobObjectDelete:
		if r.Objects == nil {
			return ErrNoObjectStore
		}
		if err := r.Objects.Delete(ctx, job.ObjectKey); err != nil {
			return &StorageError{Op: "delete", Key: job.ObjectKey, Err: err}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, job.Type)
	}
}

// Process runs job once. When it returns true the caller should run next later.
func (r *JobRunner) Process(ctx context.Context, job Job) (next Job, retry bool) {
	err := r.Run(ctx, job)
	if err == nil {
		return job, false
	}

	fields := logrus.Fields{
		"job":        job.Type,
		"attempt":    job.Attempt + 1,
		"product_id": job.ProductID,
		"object_key": job.ObjectKey,
		"order_id":   job.OrderID,
	}
	if !IsPermanent(err) && job.Attempt+1 < r.MaxAttempts {
		if r.Logger != nil {
			r.Logger.WithError(err).WithFields(fields).Warn("job failed, retrying")
		}
		job.Attempt++
		return job, true
	}

	switch job.Type {
	case JobStockDecrement:
		stockDecrementFailed.Add(1)
	case JobObjectDelete:
		objectDeleteFailed.Add(1)
	}
	if r.Logger != nil {
		r.Logger.WithError(err).WithFields(fields).Error("job failed permanently")
	}
	return job, false
}

// InlineDispatcher runs jobs on goroutines inside the API process.
type InlineDispatcher struct {
	runner  *JobRunner
	backoff time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewInlineDispatcher(runner *JobRunner, backoff time.Duration) *InlineDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &InlineDispatcher{runner: runner, backoff: backoff, ctx: ctx, cancel: cancel}
}

// Dispatch never blocks on the job itself; the request context is not used
// because it ends with the response.
func (d *InlineDispatcher) Dispatch(_ context.Context, job Job) error {
	jobsDispatched.Add(1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			next, retry := d.runner.Process(d.ctx, job)
			if !retry {
				return
			}
			select {
			case <-time.After(d.backoff * time.Duration(next.Attempt)):
			case <-d.ctx.Done():
				return
			}
			job = next
		}
	}()
	return nil
}

// Wait blocks until in-flight jobs finish or ctx is done, then stops pending retries.
func (d *InlineDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	defer d.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueDispatcher hands jobs to the worker through a durable queue.
type QueueDispatcher struct {
	pub   Publisher
	queue string
}

func NewQueueDispatcher(pub Publisher, queue string) *QueueDispatcher {
	return &QueueDispatcher{pub: pub, queue: queue}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job Job) error {
	if err := d.pub.PublishJSON(ctx, d.queue, job); err != nil {
		return err
	}
	jobsDispatched.Add(1)
	return nil
}
