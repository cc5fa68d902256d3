package pipeline

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"
)

// Task is one independent unit of work. It reports through its Outcome and
// never touches shared state.
type Task func() Outcome

// Executor runs tasks and delivers their outcomes on a channel that is closed
// once every task has finished.
type Executor interface {
	Run(tasks []Task) <-chan Outcome
}

// NewExecutor returns a bounded parallel executor when multithreading is on
// and an inline one otherwise. Workers below 1 default to the logical core
// count.
func NewExecutor(multithreading bool, workers int) Executor {
	if !multithreading {
		return Inline{}
	}
	if workers < 1 {
		workers = DefaultWorkers()
	}
	return Parallel{Workers: workers}
}

func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

type Parallel struct {
	Workers int
}

func (p Parallel) Run(tasks []Task) <-chan Outcome {
	out := make(chan Outcome, len(tasks))
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	go func() {
		defer close(out)
		var g errgroup.Group
		g.SetLimit(workers)
		for _, task := range tasks {
			g.Go(func() error {
				out <- task()
				return nil
			})
		}
		_ = g.Wait()
	}()
	return out
}

// Inline runs tasks one after another in submission order.
type Inline struct{}

func (Inline) Run(tasks []Task) <-chan Outcome {
	out := make(chan Outcome, len(tasks))
	for _, task := range tasks {
		out <- task()
	}
	close(out)
	return out
}
