package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultAlertSchedule checks alerts at the top of every hour
const DefaultAlertSchedule = "0 0 * * * *"

const defaultRunTimeout = 10 * time.Minute

// AlertChecker runs one pass over the active price alerts
type AlertChecker interface {
	CheckAlerts(ctx context.Context) (int, error)
}

// AlertJob runs the alert checker on a cron schedule with a seconds field.
// A run that is still going when the next one is due makes the next one skip.
type AlertJob struct {
	cron     *cron.Cron
	checker  AlertChecker
	schedule string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewAlertJob creates a scheduled alert job. An empty schedule uses DefaultAlertSchedule.
func NewAlertJob(checker AlertChecker, schedule string, logger zerolog.Logger) *AlertJob {
	if schedule == "" {
		schedule = DefaultAlertSchedule
	}
	logger = logger.With().Str("job", "price_alerts").Logger()
	cronLogger := cronLogAdapter{logger: logger}

	return &AlertJob{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		checker:  checker,
		schedule: schedule,
		timeout:  defaultRunTimeout,
		logger:   logger,
	}
}

// Start registers the job and starts the scheduler
func (j *AlertJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return fmt.Errorf("invalid alert schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("price alert job scheduled")
	return nil
}

// Stop stops the scheduler and returns a context that is done when the running job finishes
func (j *AlertJob) Stop() context.Context {
	return j.cron.Stop()
}

// Run performs one alert check
func (j *AlertJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	started := time.Now()
	sent, err := j.checker.CheckAlerts(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("price alert check failed")
		return
	}
	j.logger.Info().
		Int("sent", sent).
		Dur("duration", time.Since(started)).
		Msg("price alert check finished")
}

// cronLogAdapter routes cron's own logging to zerolog
type cronLogAdapter struct {
	logger zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
