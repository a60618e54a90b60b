// Package queue defines the messages exchanged over RabbitMQ and the
// supervised consumer that delivers them.
package queue

import "time"

// MailQueueName is the durable queue outbound email travels through.
const MailQueueName = "mail.outbound"

// MailRequested asks the consumer to render Template with Data and send it
// to Recipient.  Data keys are the template field names.
type MailRequested struct {
	ID          string            `json:"id"`
	Recipient   string            `json:"recipient"`
	Template    string            `json:"template"`
	Data        map[string]string `json:"data"`
	RequestedAt time.Time         `json:"requested_at"`
}
