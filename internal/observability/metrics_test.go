package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordCodec("decode", "R2000", 3*time.Millisecond)

	before := testutil.ToFloat64(codecRecords.WithLabelValues("LINE", "loaded"))
	RecordRecord("LINE", "loaded", 2)
	if got := testutil.ToFloat64(codecRecords.WithLabelValues("LINE", "loaded")); got != before+1 {
		t.Fatalf("records counter = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(codecIssues.WithLabelValues("LINE")); got < 2 {
		t.Fatalf("issues counter = %v", got)
	}

	log.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestHTTPRequestsLabelledByRevision(t *testing.T) {
	requests := func(rev string) float64 {
		return testutil.ToFloat64(httpRequests.WithLabelValues("dxftags-a", "POST", "/v1/convert", "200", rev))
	}
	beforeR12, beforeDefault := requests("R12"), requests(defaultRevision)

	RecordHTTPRequest("dxftags-a", "POST", "/v1/convert", revisionLabel("ac1009"), 200, 4096, 12*time.Millisecond)
	RecordHTTPRequest("dxftags-a", "POST", "/v1/convert", revisionLabel(""), 200, 0, 8*time.Millisecond)

	if got := requests("R12"); got != beforeR12+1 {
		t.Fatalf("R12 requests = %v, want %v", got, beforeR12+1)
	}
	if got := requests(defaultRevision); got != beforeDefault+1 {
		t.Fatalf("default revision requests = %v, want %v", got, beforeDefault+1)
	}
	if got := revisionLabel("R14"); got != "invalid" {
		t.Fatalf("revisionLabel(R14) = %q", got)
	}
}

func TestInitLoggerTagsServiceFields(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	logger := InitLogger(&buf, "dxftagctl", "dxftags-a", revision.R2000)
	logger.Info().Msg("ready")
	out := buf.String()
	for _, want := range []string{"app=dxftagctl", "node=dxftags-a", "target_revision=R2000", "ready"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %q: %s", want, out)
		}
	}
}
