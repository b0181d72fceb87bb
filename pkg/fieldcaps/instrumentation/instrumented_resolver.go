// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/coraldb/fieldcaps/pkg/fieldcaps"
	"github.com/coraldb/fieldcaps/pkg/otel"
)

// Resolver decorates a fieldcaps.Resolver with tracing and metrics.
type Resolver struct {
	inner   fieldcaps.Resolver
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *resolverMetrics
}

type resolverMetrics struct {
	requests metric.Int64Counter
	misses   metric.Int64Counter
	latency  metric.Int64Histogram
}

func NewResolver(inner fieldcaps.Resolver, instrumentation *otel.Instrumentation) (fieldcaps.Resolver, error) {
	if instrumentation == nil {
		return inner, nil
	}

	r := &Resolver{
		inner:   inner,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &resolverMetrics{},
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("error initialising resolver metrics: %w", err)
	}

	return r, nil
}

func (r *Resolver) initMetrics() error {
	if r.meter == nil {
		return nil
	}

	var err error
	r.metrics.requests, err = r.meter.Int64Counter("fieldcaps.resolver.requests",
		metric.WithDescription("Total number of field capabilities resolution requests"))
	if err != nil {
		return err
	}

	r.metrics.misses, err = r.meter.Int64Counter("fieldcaps.resolver.index_not_found",
		metric.WithDescription("Number of requests failing with index not found"))
	if err != nil {
		return err
	}

	r.metrics.latency, err = r.meter.Int64Histogram("fieldcaps.resolver.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Resolution request latency"))
	if err != nil {
		return err
	}

	return nil
}

func (r *Resolver) Resolve(ctx context.Context, req *fieldcaps.Request) (result *fieldcaps.Result, err error) {
	ctx, span := otel.StartSpan(ctx, r.tracer, "fieldcaps.Resolve", trace.WithAttributes(
		attribute.String("index_pattern", req.IndexPattern),
		attribute.StringSlice("field_patterns", req.FieldPatterns),
	))
	defer otel.CloseSpan(span, err)

	if r.meter != nil {
		startTime := time.Now()
		defer func() {
			r.metrics.latency.Record(ctx, time.Since(startTime).Milliseconds())
			r.metrics.requests.Add(ctx, 1)
			var notFound fieldcaps.ErrIndexNotFound
			if errors.As(err, &notFound) {
				r.metrics.misses.Add(ctx, 1)
			}
		}()
	}

	return r.inner.Resolve(ctx, req)
}
