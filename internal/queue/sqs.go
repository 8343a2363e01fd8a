package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSTransport is the production transport backed by Amazon SQS.
type SQSTransport struct {
	client          *sqs.Client
	waitTimeSeconds int32
}

func NewSQSTransport(cfg aws.Config) *SQSTransport {
	return &SQSTransport{
		client:          sqs.NewFromConfig(cfg),
		waitTimeSeconds: 20,
	}
}

func (t *SQSTransport) Receive(ctx context.Context, queueURL string, maxMessages int32) ([]Message, error) {
	resp, err := t.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(queueURL),
		MaxNumberOfMessages:   maxMessages,
		WaitTimeSeconds:       t.waitTimeSeconds,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]Message, 0, len(resp.Messages))
	for _, raw := range resp.Messages {
		msg := Message{
			Attributes: make(map[string]string),
		}
		if raw.MessageId != nil {
			msg.MessageID = *raw.MessageId
		}
		if raw.Body != nil {
			msg.Body = []byte(*raw.Body)
		}
		if raw.ReceiptHandle != nil {
			msg.ReceiptHandle = *raw.ReceiptHandle
		}
		for name, attr := range raw.MessageAttributes {
			if attr.StringValue != nil {
				msg.Attributes[name] = *attr.StringValue
			}
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (t *SQSTransport) Ack(ctx context.Context, queueURL string, msg Message) error {
	_, err := t.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(msg.ReceiptHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (t *SQSTransport) Requeue(ctx context.Context, queueURL string, msg Message, delay time.Duration) error {
	_, err := t.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(queueURL),
		ReceiptHandle:     aws.String(msg.ReceiptHandle),
		VisibilityTimeout: int32(delay.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("failed to change message visibility: %w", err)
	}
	return nil
}

func (t *SQSTransport) Send(ctx context.Context, queueURL string, body []byte, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	}
	if len(attributes) > 0 {
		input.MessageAttributes = make(map[string]sqsTypes.MessageAttributeValue, len(attributes))
		for name, value := range attributes {
			input.MessageAttributes[name] = sqsTypes.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(value),
			}
		}
	}

	_, err := t.client.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (t *SQSTransport) Stats(ctx context.Context, queueURL string) (*Stats, error) {
	resp, err := t.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(queueURL),
		AttributeNames: []sqsTypes.QueueAttributeName{
			sqsTypes.QueueAttributeNameApproximateNumberOfMessages,
			sqsTypes.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
			sqsTypes.QueueAttributeNameApproximateNumberOfMessagesDelayed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get queue attributes: %w", err)
	}

	parse := func(name sqsTypes.QueueAttributeName) int {
		n, _ := strconv.Atoi(resp.Attributes[string(name)])
		return n
	}

	return &Stats{
		MessagesAvailable: parse(sqsTypes.QueueAttributeNameApproximateNumberOfMessages),
		MessagesInFlight:  parse(sqsTypes.QueueAttributeNameApproximateNumberOfMessagesNotVisible),
		MessagesDelayed:   parse(sqsTypes.QueueAttributeNameApproximateNumberOfMessagesDelayed),
	}, nil
}

func (t *SQSTransport) Purge(ctx context.Context, queueURL string) error {
	_, err := t.client.PurgeQueue(ctx, &sqs.PurgeQueueInput{
		QueueUrl: aws.String(queueURL),
	})
	if err != nil {
		return fmt.Errorf("failed to purge queue: %w", err)
	}
	return nil
}
