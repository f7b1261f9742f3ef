// Package history models the append-only status log of an order.
package history
