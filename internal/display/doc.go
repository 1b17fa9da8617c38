// Package display turns calculator state into what a user sees: grouped
// operands, the pending operator and a size class for long numbers. It holds
// no state of its own.
package display
