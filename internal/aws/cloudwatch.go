package aws

import (
	"context"
	"log"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsRecorder pushes business metrics to CloudWatch. Emission is
// best-effort: failures are logged and never propagated to the caller.
type MetricsRecorder struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetricsRecorder returns a recorder for the given namespace.
func NewMetricsRecorder(client CloudWatchAPI, namespace string) *MetricsRecorder {
	return &MetricsRecorder{client: client, namespace: namespace}
}

// RecordOrderPlaced emits an OrderPlaced count plus the order total, tagged
// with the persistence path that accepted the write.
func (m *MetricsRecorder) RecordOrderPlaced(ctx context.Context, storePath string, total float64) {
	if m == nil || m.client == nil {
		return
	}
	dims := []cwtypes.Dimension{
		{Name: awsString("StorePath"), Value: &storePath},
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrderPlaced"),
				Dimensions: dims,
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
			{
				MetricName: awsString("OrderTotal"),
				Dimensions: dims,
				Unit:       cwtypes.StandardUnitNone,
				Value:      &total,
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("cloudwatch put metric data: %v", err)
	}
}

// RecordFallbackUsed emits a count each time the primary store was down and
// an order landed on the local fallback, so operators can reconcile later.
func (m *MetricsRecorder) RecordFallbackUsed(ctx context.Context) {
	if m == nil || m.client == nil {
		return
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("FallbackWrite"),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("cloudwatch put metric data: %v", err)
	}
}
