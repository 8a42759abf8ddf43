package reconciliation

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Worker runs Check on a fixed interval.
type Worker struct {
	svc       *Service
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewWorker(svc *Service, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{svc: svc, interval: interval}
}

// Start schedules the job. The first run happens immediately.
func (w *Worker) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.run),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	w.scheduler = sched
	sched.Start()
	log.Info().Dur("interval", w.interval).Msg("Reconciliation worker started")
	return nil
}

func (w *Worker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := w.svc.Check(ctx); err != nil {
		log.Error().Err(err).Msg("Reconciliation run failed")
	}
}

// Stop waits for a running check to finish.
func (w *Worker) Stop() {
	if w.scheduler == nil {
		return
	}
	if err := w.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Reconciliation worker shutdown failed")
	}
}
