package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

// KPISource serves the live order aggregate.
type KPISource interface {
	OrderKPIs(ctx context.Context) (*models.OrderKPIs, error)
}

// Sink archives a KPI snapshot.
type Sink interface {
	SaveKPISnapshot(ctx context.Context, snapshot models.KPISnapshot) error
}

// ErrNoSinks is returned when a snapshot is requested with nowhere to store it.
var ErrNoSinks = errors.New("no kpi snapshot sinks configured")

// Service takes KPI snapshots and writes them to every configured sink.
type Service struct {
	source KPISource
	sinks  []Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new snapshot service instance.
func NewService(source KPISource, sinks []Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, sinks: sinks, logger: logger, now: time.Now}
}

// Enabled reports whether at least one sink is configured.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}

// TakeSnapshot reads the aggregate once and stores it in every sink. A failing sink does
// not stop the others; their errors are joined.
func (s *Service) TakeSnapshot(ctx context.Context) (models.KPISnapshot, error) {
	if !s.Enabled() {
		return models.KPISnapshot{}, ErrNoSinks
	}

	kpis, err := s.source.OrderKPIs(ctx)
	if err != nil {
		return models.KPISnapshot{}, fmt.Errorf("load order kpis: %w", err)
	}

	snapshot := models.KPISnapshot{
		TakenAt:   s.now().UTC().Truncate(time.Second),
		OrderKPIs: *kpis,
	}

	var errs []error
	for i, sink := range s.sinks {
		if err := sink.SaveKPISnapshot(ctx, snapshot); err != nil {
			s.logger.Error("kpi snapshot sink failed", zap.Int("sink", i), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return snapshot, fmt.Errorf("store kpi snapshot: %w", err)
	}

	s.logger.Info("kpi snapshot stored",
		zap.Time("taken_at", snapshot.TakenAt),
		zap.Int64("total", snapshot.Total),
		zap.Int("sinks", len(s.sinks)))
	return snapshot, nil
}
