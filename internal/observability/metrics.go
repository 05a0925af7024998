package observability

import (
	"context"
	"fmt"
	"slices"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/wizard"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records model calls, wizard events and rate limiting. The zero
// value is usable and records nothing.
type Metrics struct {
	ModelCalls   metric.Int64Counter
	ModelErrors  metric.Int64Counter
	ModelLatency metric.Float64Histogram
	ModelTokens  metric.Int64Counter

	// Events holds one counter per wizard event.
	Events map[string]metric.Int64Counter

	RateLimited metric.Int64Counter

	record config.MetricSetConfig
}

var (
	_ ai.CallObserver = (*Metrics)(nil)
	_ wizard.Recorder = (*Metrics)(nil)
)

var eventCounters = []struct {
	event       string
	name        string
	description string
}{
	{wizard.EventCVExtracted, "cvwizard_cvs_extracted_total", "CVs extracted from uploaded documents"},
	{wizard.EventCVEnhanced, "cvwizard_cvs_enhanced_total", "CVs enhanced for a job description"},
	{wizard.EventCoverLetter, "cvwizard_cover_letters_generated_total", "Cover letters generated"},
	{wizard.EventReview, "cvwizard_reviews_total", "Application material reviews"},
	{wizard.EventModification, "cvwizard_modifications_total", "Modification requests processed"},
	{wizard.EventJobParsed, "cvwizard_job_descriptions_parsed_total", "Job descriptions parsed"},
	{wizard.EventPlaceholderIdentity, "cvwizard_placeholder_identity_total", "Placeholder identity defaults applied"},
	{wizard.EventProfileExportsMerged, "cvwizard_profile_exports_merged_total", "Profile exports merged into extracted CVs"},
}

func newMetrics(meter metric.Meter, record config.MetricSetConfig) (*Metrics, error) {
	m := &Metrics{record: record, Events: make(map[string]metric.Int64Counter, len(eventCounters))}

	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&m.ModelCalls, "cvwizard_model_calls_total", "Gemini calls made by wizard operations", ""},
		{&m.ModelErrors, "cvwizard_model_call_errors_total", "Gemini calls that failed after retries", ""},
		{&m.ModelTokens, "cvwizard_model_tokens_total", "Tokens consumed by Gemini calls, by token_type", "{token}"},
		{&m.RateLimited, "cvwizard_rate_limited_requests_total", "Requests rejected by the rate limiter", ""},
	}
	for _, c := range counters {
		opts := []metric.Int64CounterOption{metric.WithDescription(c.description)}
		if c.unit != "" {
			opts = append(opts, metric.WithUnit(c.unit))
		}
		counter, err := meter.Int64Counter(c.name, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	latency, err := meter.Float64Histogram("cvwizard_model_call_duration_seconds",
		metric.WithDescription("Wall time of Gemini calls, retries included"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create model latency histogram: %w", err)
	}
	m.ModelLatency = latency

	for _, ec := range eventCounters {
		counter, err := meter.Int64Counter(ec.name, metric.WithDescription(ec.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", ec.name, err)
		}
		m.Events[ec.event] = counter
	}
	return m, nil
}

// ObserveCall records one finished gateway call. The gateway owns the span,
// so only metrics are written here.
func (m *Metrics) ObserveCall(ctx context.Context, op config.Operation, model string, seconds float64, usage *ai.TokenUsage, err error) {
	if m.ModelCalls == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", op.String()),
		attribute.String("model", model),
		attribute.Bool("success", err == nil),
	}
	set := metric.WithAttributes(attrs...)

	if m.record.ModelCalls {
		m.ModelCalls.Add(ctx, 1, set)
		if err != nil {
			m.ModelErrors.Add(ctx, 1, set)
		}
	}
	if m.record.ModelLatency {
		m.ModelLatency.Record(ctx, seconds, set)
	}
	if m.record.ModelTokens && usage != nil {
		for tokenType, n := range map[string]int64{
			"input":  usage.InputTokens,
			"output": usage.OutputTokens,
			"total":  usage.TotalTokens,
		} {
			withType := append(slices.Clone(attrs), attribute.String("token_type", tokenType))
			m.ModelTokens.Add(ctx, n, metric.WithAttributes(withType...))
		}
	}
}

// Record counts a wizard event. Unknown events are ignored.
func (m *Metrics) Record(ctx context.Context, event string, success bool, attrs ...attribute.KeyValue) {
	if !m.record.WizardEvents {
		return
	}
	counter, ok := m.Events[event]
	if !ok {
		return
	}
	if m.record.Outcomes {
		attrs = append([]attribute.KeyValue{attribute.Bool("success", success)}, attrs...)
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m.RateLimited == nil || !m.record.RateLimits {
		return
	}
	m.RateLimited.Add(ctx, 1, metric.WithAttributes(attrs...))
}
