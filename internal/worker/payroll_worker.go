package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aura-hq/staffmanager/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	PayrollBatchSize    = 50
	PayrollBatchTimeout = 2 * time.Second
	PayrollPollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// PayrollWorker consumes the payroll queue and marks PROCESSING salary
// records as PAID once the run completes.
type PayrollWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewPayrollWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *PayrollWorker {
	return &PayrollWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "payroll_worker").Logger(),
	}
}

type payrollPayload struct {
	SalaryID int64 `json:"salary_id"`
}

// Start begins the worker loop. Call in a goroutine.
func (w *PayrollWorker) Start(ctx context.Context) {
	w.log.Info().Msg("PayrollWorker started")

	batch := make([]*payrollPayload, 0, PayrollBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= PayrollBatchSize || time.Since(lastFlush) >= PayrollBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, PayrollPollTimeout, config.Key.PayrollQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p payrollPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				// Malformed JSON cannot be retried. Log and discard.
				w.log.Error().Err(err).Str("data", item[1]).Msg("Discarding malformed payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *PayrollWorker) flushSafe(ctx context.Context, batch []*payrollPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkMarkPaid(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("bulk payroll update failed, using fallback")

		for _, p := range batch {
			if err := w.markPaid(ctx, p.SalaryID); err != nil {
				w.log.Error().Err(err).Int64("salary_id", p.SalaryID).Msg("markPaid failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.Key.PayrollQueue, raw)
			}
		}
		return
	}

	w.log.Info().Int("count", len(batch)).Msg("Payroll batch settled")
}

func (w *PayrollWorker) bulkMarkPaid(ctx context.Context, batch []*payrollPayload) error {
	ids := make([]int64, 0, len(batch))
	for _, p := range batch {
		ids = append(ids, p.SalaryID)
	}

	// Only PROCESSING records are settled; anything re-edited back to
	// PENDING in the meantime is left alone.
	_, err := w.pool.Exec(ctx,
		`UPDATE salaries
		 SET status = 'PAID', updated_at = NOW()
		 WHERE id = ANY($1) AND status = 'PROCESSING'`,
		ids,
	)
	return err
}

func (w *PayrollWorker) markPaid(ctx context.Context, salaryID int64) error {
	_, err := w.pool.Exec(ctx,
		`UPDATE salaries
		 SET status = 'PAID', updated_at = NOW()
		 WHERE id = $1 AND status = 'PROCESSING'`,
		salaryID,
	)
	return err
}
