package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordClientConnected()
	RecordClientGone()
	RecordFrameRelayed(2)
	RecordRosterBroadcast()
	RecordBroadcastRetry()
	RecordClientReap()
	RecordHTTPRequest("host.local", "GET", "/healthz", 200, 12*time.Millisecond)
}
