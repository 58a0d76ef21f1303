package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics

	studentsPersisted metric.Int64Counter
	eventsPublished   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.studentsPersisted, err = meter.Int64Counter(
		"student_orm.students.persisted",
		metric.WithDescription("Total number of student rows written"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsPublished, err = meter.Int64Counter(
		"student_orm.events.published",
		metric.WithDescription("Total number of student events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing.
// All Record* calls are ignored.
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
	}
}

func (m *Metrics) RecordStudentPersisted(ctx context.Context) {
	if m == nil || m.studentsPersisted == nil {
		return
	}
	m.studentsPersisted.Add(ctx, 1)
}

func (m *Metrics) RecordEventPublished(ctx context.Context) {
	if m == nil || m.eventsPublished == nil {
		return
	}
	m.eventsPublished.Add(ctx, 1)
}
