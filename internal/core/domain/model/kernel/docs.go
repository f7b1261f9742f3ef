// Package kernel holds the value objects shared by every aggregate of the order
// lifecycle service: UUID identifiers and single-currency Money.
//
// Both are immutable, have an invalid zero value and expose Validate so that
// repositories can reject objects that were not built through a constructor.
package kernel
