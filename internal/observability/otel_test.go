package observability

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/cdforge/forge-site/internal/config"
)

// recordingClient stands in for the OTLP/gRPC client so no collector is needed.
type recordingClient struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	uploaded []*tracepb.ResourceSpans
}

func (c *recordingClient) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	return nil
}

func (c *recordingClient) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	return nil
}

func (c *recordingClient) UploadTraces(_ context.Context, rs []*tracepb.ResourceSpans) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploaded = append(c.uploaded, rs...)
	return nil
}

// withClient swaps the OTLP client for rc and restores the seam and the
// OTel globals when the test ends. It reports how many options were passed.
func withClient(t *testing.T, rc *recordingClient) *int {
	t.Helper()
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	orig := newOTLPClient
	var nopts int
	newOTLPClient = func(opts ...otlptracegrpc.Option) otlptrace.Client {
		nopts = len(opts)
		return rc
	}
	t.Cleanup(func() {
		newOTLPClient = orig
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return &nopts
}

func enabledCfg(ratio float64) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "collector:4317",
		ServiceName: "forge-site",
		SampleRatio: ratio,
	}
}

func TestSetupOTel_DisabledLeavesGlobals(t *testing.T) {
	rc := &recordingClient{}
	withClient(t, rc)
	prevTP := otel.GetTracerProvider()

	cfg := enabledCfg(1)
	cfg.Enabled = false
	shutdown, err := SetupOTel(context.Background(), cfg, "dev")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("disabled tracing must not install a provider")
	}
	if rc.started {
		t.Fatal("disabled tracing must not start an exporter")
	}
}

func TestSetupOTel_ExportsWithServiceResource(t *testing.T) {
	rc := &recordingClient{}
	withClient(t, rc)

	shutdown, err := SetupOTel(context.Background(), enabledCfg(1), "1.4.0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected *sdktrace.TracerProvider, got %T", otel.GetTracerProvider())
	}

	_, span := otel.Tracer("orders").Start(context.Background(), "Submit")
	if !span.IsRecording() {
		t.Fatal("ratio 1 should record root spans")
	}
	span.End()

	// Shutdown flushes the batcher and stops the client.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.started || !rc.stopped {
		t.Fatalf("client lifecycle started=%v stopped=%v", rc.started, rc.stopped)
	}
	if len(rc.uploaded) == 0 {
		t.Fatal("expected the span to be exported")
	}
	attrs := map[string]string{}
	for _, kv := range rc.uploaded[0].GetResource().GetAttributes() {
		attrs[kv.GetKey()] = kv.GetValue().GetStringValue()
	}
	if attrs["service.name"] != "forge-site" || attrs["service.version"] != "1.4.0" {
		t.Fatalf("unexpected resource attributes: %v", attrs)
	}
}

func TestSetupOTel_PropagatesTraceContextAndBaggage(t *testing.T) {
	withClient(t, &recordingClient{})
	shutdown, err := SetupOTel(context.Background(), enabledCfg(1), "dev")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	fields := strings.Join(otel.GetTextMapPropagator().Fields(), ",")
	if !strings.Contains(fields, "traceparent") || !strings.Contains(fields, "baggage") {
		t.Fatalf("propagator fields = %q", fields)
	}
}

func TestSetupOTel_RatioZeroDropsRootSpans(t *testing.T) {
	withClient(t, &recordingClient{})
	shutdown, err := SetupOTel(context.Background(), enabledCfg(0), "dev")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	_, span := otel.Tracer("reviews").Start(context.Background(), "List")
	defer span.End()
	if span.IsRecording() {
		t.Fatal("ratio 0 must not record root spans")
	}
}

func TestSetupOTel_ClientOptionsPerTransport(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		rc := &recordingClient{}
		nopts := withClient(t, rc)
		cfg := enabledCfg(1)
		cfg.Insecure = insecure

		shutdown, err := SetupOTel(context.Background(), cfg, "dev")
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		_ = shutdown(context.Background())
		if *nopts != 2 {
			t.Fatalf("insecure=%v: got %d client options, want endpoint plus transport", insecure, *nopts)
		}
	}
}

func TestSetupOTel_FailuresLeaveGlobals(t *testing.T) {
	tests := []struct {
		name        string
		breakSeam   func() (restore func())
		wantStopped bool
	}{
		{
			name: "exporter",
			breakSeam: func() func() {
				orig := newOTLPExporterFn
				newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
					return nil, errors.New("exporter unavailable")
				}
				return func() { newOTLPExporterFn = orig }
			},
		},
		{
			name: "resource",
			breakSeam: func() func() {
				orig := newServiceResourceFn
				newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
					return nil, errors.New("resource detection failed")
				}
				return func() { newServiceResourceFn = orig }
			},
			wantStopped: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc := &recordingClient{}
			withClient(t, rc)
			defer tc.breakSeam()()
			prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()

			shutdown, err := SetupOTel(context.Background(), enabledCfg(1), "dev")
			if err == nil || shutdown != nil {
				t.Fatalf("expected error and nil Shutdown, got err=%v shutdown=%v", err, shutdown != nil)
			}
			if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
				t.Fatal("globals changed on failure")
			}
			if rc.stopped != tc.wantStopped {
				t.Fatalf("exporter stopped = %v, want %v", rc.stopped, tc.wantStopped)
			}
		})
	}
}

func TestServiceResource_CarriesHost(t *testing.T) {
	res, err := newServiceResourceFn(context.Background(), "forge-site", "2.0.0")
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	set := res.Set()
	for _, key := range []attribute.Key{semconv.ServiceNameKey, semconv.ServiceVersionKey, semconv.HostNameKey} {
		if v, ok := set.Value(key); !ok || v.AsString() == "" {
			t.Fatalf("resource missing %s: %v", key, res)
		}
	}
}

func TestSampler_Bounds(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tc := range tests {
		if got := Sampler(tc.ratio).Description(); !strings.Contains(got, tc.want) {
			t.Fatalf("Sampler(%v) = %q, want it to contain %q", tc.ratio, got, tc.want)
		}
	}
}

func TestSampler_FollowsSampledParent(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	params := sdktrace.SamplingParameters{
		ParentContext: trace.ContextWithRemoteSpanContext(context.Background(), parent),
		TraceID:       parent.TraceID(),
		Name:          "child",
	}
	if got := Sampler(0).ShouldSample(params).Decision; got != sdktrace.RecordAndSample {
		t.Fatalf("sampled parent must win over ratio 0, got %v", got)
	}

	root := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: trace.TraceID{2}, Name: "root"}
	if got := Sampler(1).ShouldSample(root).Decision; got != sdktrace.RecordAndSample {
		t.Fatalf("ratio 1 root decision = %v", got)
	}
}
