package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/siegekeeper/engine/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/siegekeeper/engine/internal/snapshot"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

var (
	instrumentsOnce sync.Once

	captureCounter  metric.Int64Counter
	restoreCounter  metric.Int64Counter
	captureDuration metric.Float64Histogram
	restoreDuration metric.Float64Histogram
)

// instruments creates the package's instruments against the global meter.
// With no SDK configured they are no-ops.
func instruments() {
	instrumentsOnce.Do(func() {
		m := meter()
		captureCounter, _ = m.Int64Counter(
			"snapshot.captures",
			metric.WithDescription("Number of completed snapshot captures"),
		)
		restoreCounter, _ = m.Int64Counter(
			"snapshot.restores",
			metric.WithDescription("Number of completed snapshot restores"),
		)
		captureDuration, _ = m.Float64Histogram(
			"snapshot.capture.duration",
			metric.WithDescription("Snapshot capture duration"),
			metric.WithUnit("ms"),
		)
		restoreDuration, _ = m.Float64Histogram(
			"snapshot.restore.duration",
			metric.WithDescription("Snapshot restore duration"),
			metric.WithUnit("ms"),
		)
	})
}

func entityCount(doc *core.Document) int {
	n := len(doc.Combatants) + len(doc.Monsters) + len(doc.MonsterInstances) +
		len(doc.Locations) + len(doc.Preferences)
	if doc.SiegeState != nil {
		n += 1 + len(doc.SiegeState.Notes)
	}
	for _, c := range doc.Combatants {
		n += len(c.Conditions)
	}
	for _, l := range doc.Locations {
		n += len(l.PlotPoints)
	}
	return n
}

func recordCapture(ctx context.Context, elapsed time.Duration, doc *core.Document) {
	instruments()
	attrs := metric.WithAttributes(attribute.Int("entities", entityCount(doc)))
	captureCounter.Add(ctx, 1, attrs)
	captureDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}

func recordRestore(ctx context.Context, elapsed time.Duration, doc *core.Document) {
	instruments()
	attrs := metric.WithAttributes(attribute.Int("entities", entityCount(doc)))
	restoreCounter.Add(ctx, 1, attrs)
	restoreDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
