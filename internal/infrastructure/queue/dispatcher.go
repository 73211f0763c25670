package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/api/metrics"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes occurrence-regeneration requests to a fixed set of
// workers using consistent hashing on the job id, guaranteeing that
// re-expansions of the same job never interleave.
type Dispatcher struct {
	workers []chan string
	service ports.ScheduleService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ScheduleService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueRegenerate sends a regeneration request to the worker responsible
// for the job. Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) EnqueueRegenerate(jobID string) {
	idx := d.shardIndex(jobID)
	d.workers[idx] <- jobID
	metrics.RegenQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a job id deterministically to a worker index.
func (d *Dispatcher) shardIndex(jobID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobID, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Regenerate(ctx, ports.RegenerateInput{JobID: jobID}); err != nil {
				d.log.Error().Err(err).
					Str("job_id", jobID).
					Int("worker_id", id).
					Msg("occurrence regeneration failed")
			}
			metrics.RegenQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
