package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// SimulatedProcessor approves every charge after an artificial delay,
// unless the caller asks for a failure. It never talks to a real
// gateway.
type SimulatedProcessor struct {
	delay  time.Duration
	logger *slog.Logger
}

var _ Processor = (*SimulatedProcessor)(nil)

// NewSimulatedProcessor creates a processor with the given artificial
// latency. Pass zero for instant processing in tests.
func NewSimulatedProcessor(delay time.Duration, logger *slog.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay, logger: logger}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("payment processing interrupted: %w", ctx.Err())
		}
	}

	result := &ChargeResult{
		TransactionID: newTransactionID(),
		Approved:      !params.SimulateFailure,
		ProcessedAt:   time.Now(),
	}
	if !result.Approved {
		result.Reason = "payment declined by processor"
	}

	p.logger.Info("processed simulated charge",
		slog.String("transaction_id", result.TransactionID),
		slog.String("method", string(params.Method)),
		slog.Float64("amount", params.Amount),
		slog.Bool("approved", result.Approved),
	)

	return result, nil
}

// newTransactionID builds ids like TXN1756600000000a1b2c3: a millisecond
// timestamp plus random hex, unique enough without coordination.
func newTransactionID() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to the timestamp alone; collisions within the same
		// millisecond are acceptable for a simulated processor.
		return fmt.Sprintf("TXN%d", time.Now().UnixMilli())
	}
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
