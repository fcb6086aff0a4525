// Package jobs runs background tasks, such as operator-triggered analysis
// cycles, on a bounded worker pool.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher queues tasks for a pool of workers.
type Dispatcher interface {
	Dispatch(ctx context.Context, task Task) error
	Stop()
}

// dispatcher manages a pool of worker goroutines draining a shared queue.
type dispatcher struct {
	taskQueue  chan Task
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(maxWorkers int, logger *slog.Logger) Dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan Task, 100),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes tasks from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting worker", "id", workerID)

	for task := range d.taskQueue {
		d.logger.Info("worker processing task", "worker_id", workerID, "task", task.Name)
		if err := task.Run(context.Background()); err != nil {
			d.logger.Error("background task failed", "task", task.Name, "error", err)
		}
	}

	d.logger.Info("shutting down worker", "id", workerID)
}

// Dispatch queues a task for processing by a worker. A full queue rejects the
// task rather than blocking the caller.
func (d *dispatcher) Dispatch(_ context.Context, task Task) error {
	select {
	case d.taskQueue <- task:
		d.logger.Info("queued background task", "task", task.Name)
		return nil
	default:
		return fmt.Errorf("task queue is full, cannot accept %q", task.Name)
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for tasks to finish")
	close(d.taskQueue)
	d.wg.Wait()
	d.logger.Info("all background tasks have finished")
}
