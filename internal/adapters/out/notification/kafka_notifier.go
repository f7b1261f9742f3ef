package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/pkg/tracing"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the Kafka adapters use.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EmailMessage is the payload put on the email queue for the mail service.
type EmailMessage struct {
	Template    string `json:"template"`
	OrderNumber string `json:"orderNumber"`
	ToName      string `json:"toName"`
	ToEmail     string `json:"toEmail"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// KafkaNotifier renders the email and queues it on a Kafka topic; a mail
// service downstream owns delivery.
type KafkaNotifier struct {
	writer    MessageWriter
	catalogue *Catalogue
}

func NewKafkaNotifier(writer MessageWriter, catalogue *Catalogue) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, catalogue: catalogue}
}

// Send reports sent=true once the broker acknowledged the message.
func (n *KafkaNotifier) Send(ctx context.Context, template string, vars notification.Variables, to notification.Recipient) (bool, error) {
	if to.Email == "" {
		return false, nil
	}

	email, err := n.catalogue.Render(template, vars)
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(EmailMessage{
		Template:    template,
		OrderNumber: vars.OrderNumber,
		ToName:      to.Name,
		ToEmail:     to.Email,
		Subject:     email.Subject,
		Body:        email.Body,
	})
	if err != nil {
		return false, err
	}

	msg := kafka.Message{Key: []byte(vars.OrderNumber), Value: payload}
	tracing.InjectKafka(ctx, &msg)

	if err = n.writer.WriteMessages(ctx, msg); err != nil {
		return false, fmt.Errorf("queue email for %s: %w", vars.OrderNumber, err)
	}
	return true, nil
}
