package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsClient builds an SQS client. A non-empty endpoint (LocalStack, ElasticMQ)
// replaces the regional one.
func NewSqsClient(awsConfig aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(awsConfig, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
