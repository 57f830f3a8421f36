// Package metrics publishes admission-outcome counters to CloudWatch.
// Publishing is best-effort: a metrics failure must never fail a
// request, so errors are logged and dropped.
package metrics

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/chefgpt/chefgpt-api/internal/aws"
)

const namespace = "ChefGPT"

// Publisher emits count metrics under the ChefGPT namespace.
type Publisher struct {
	client aws.CloudWatchAPI
	logger *slog.Logger
}

// NewPublisher returns a Publisher. logger may be nil.
func NewPublisher(client aws.CloudWatchAPI, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, logger: logger}
}

// Count publishes a single-unit count datum for metric.
func (p *Publisher) Count(ctx context.Context, metric string) {
	one := 1.0
	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: awsString(namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &metric,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		p.logger.Warn("failed to publish metric",
			slog.String("metric", metric),
			slog.String("error", err.Error()))
	}
}

func awsString(s string) *string { return &s }
