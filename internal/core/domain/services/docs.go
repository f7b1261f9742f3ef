// Package services provides domain services that coordinate more than one
// aggregate or value type.
//
// The package includes:
//   - StockAllocator: chooses the warehouse location for each line item of an order
package services
