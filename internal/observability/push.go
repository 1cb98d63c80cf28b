package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name for one-shot runs.
const PushJob = "daily_report_runner"

// Push sends the current metric values to a Prometheus Pushgateway, replacing
// any metrics previously pushed under the same job.
func (m *Metrics) Push(ctx context.Context, gatewayURL string) error {
	if err := push.New(gatewayURL, PushJob).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
