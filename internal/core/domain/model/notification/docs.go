// Package notification models customer notifications: the variables a template
// is rendered with and the outbox messages kept for retry.
package notification
