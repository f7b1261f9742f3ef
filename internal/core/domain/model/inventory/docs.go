// Package inventory models warehouse stock levels and the per-order movements
// that adjust them.
package inventory
