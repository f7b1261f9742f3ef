// Package order holds the order aggregate and its lifecycle rules.
//
// The package includes:
//   - Status, DeliveryStatus, PaymentStatus and Action: the closed vocabularies
//   - Attempt: the pure transition validator and its rule table
//   - Order: the aggregate root, which applies validated transitions
//   - NextExpectedAction: the operator hint for list and detail views
//
// Nothing in this package performs I/O. Inventory, history and notification
// effects are returned as data and executed by the application layer.
package order
