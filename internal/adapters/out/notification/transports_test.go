package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recipient = notification.Recipient{Name: "Ada Lovelace", Email: "ada@example.com"}

func mustCatalogue(t *testing.T) *Catalogue {
	t.Helper()
	c, err := LoadCatalogue()
	require.NoError(t, err)
	return c
}

func Test_SMTPNotifier(t *testing.T) {
	newNotifier := func(t *testing.T, send sendMailFunc) *SMTPNotifier {
		n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "2525", From: "shop@example.com"}, mustCatalogue(t))
		n.sendMail = send
		n.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
		return n
	}

	t.Run("should send the rendered email to the relay", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		n := newNotifier(t, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		})

		sent, err := n.Send(t.Context(), order.TemplateOrderDelivered, testVariables(), recipient)

		require.NoError(t, err)
		assert.True(t, sent)
		assert.Equal(t, "mail.local:2525", gotAddr)
		assert.Equal(t, "shop@example.com", gotFrom)
		assert.Equal(t, []string{"ada@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Subject: Order ord-42 delivered\r\n")
		assert.Contains(t, string(gotMsg), "has been delivered")
	})

	t.Run("should skip recipients without email", func(t *testing.T) {
		called := false
		n := newNotifier(t, func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		})

		sent, err := n.Send(t.Context(), order.TemplateOrderDelivered, testVariables(), notification.Recipient{Name: "Ada"})

		require.NoError(t, err)
		assert.False(t, sent)
		assert.False(t, called)
	})

	t.Run("should wrap relay errors", func(t *testing.T) {
		relayErr := errors.New("452 mailbox full")
		n := newNotifier(t, func(string, smtp.Auth, string, []string, []byte) error { return relayErr })

		sent, err := n.Send(t.Context(), order.TemplateOrderDelivered, testVariables(), recipient)

		assert.False(t, sent)
		assert.ErrorIs(t, err, relayErr)
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		n := newNotifier(t, func(string, smtp.Auth, string, []string, []byte) error {
			<-release
			return nil
		})
		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		sent, err := n.Send(ctx, order.TemplateOrderDelivered, testVariables(), recipient)

		assert.False(t, sent)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func Test_KafkaNotifier(t *testing.T) {
	t.Run("should queue the rendered email keyed by order", func(t *testing.T) {
		w := &recordingWriter{}
		n := NewKafkaNotifier(w, mustCatalogue(t))

		sent, err := n.Send(t.Context(), order.TemplateShippingConfirmation, testVariables(), recipient)

		require.NoError(t, err)
		assert.True(t, sent)
		require.Len(t, w.messages, 1)
		assert.Equal(t, "ord-42", string(w.messages[0].Key))

		var payload EmailMessage
		require.NoError(t, json.Unmarshal(w.messages[0].Value, &payload))
		assert.Equal(t, order.TemplateShippingConfirmation, payload.Template)
		assert.Equal(t, "ada@example.com", payload.ToEmail)
		assert.Equal(t, "Order ord-42 is on its way", payload.Subject)
		assert.Contains(t, payload.Body, "TRK-1")
	})

	t.Run("should report broker failures", func(t *testing.T) {
		brokerErr := errors.New("leader not available")
		n := NewKafkaNotifier(&recordingWriter{err: brokerErr}, mustCatalogue(t))

		sent, err := n.Send(t.Context(), order.TemplateOrderCancelled, testVariables(), recipient)

		assert.False(t, sent)
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("should not queue unknown templates", func(t *testing.T) {
		w := &recordingWriter{}
		n := NewKafkaNotifier(w, mustCatalogue(t))

		_, err := n.Send(t.Context(), "welcome", testVariables(), recipient)

		assert.Error(t, err)
		assert.Empty(t, w.messages)
	})
}

func Test_LogNotifier(t *testing.T) {
	n := NewLogNotifier(mustCatalogue(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	sent, err := n.Send(t.Context(), order.TemplateDeliveryFailed, testVariables(), recipient)

	require.NoError(t, err)
	assert.True(t, sent)
}
