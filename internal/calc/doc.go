// Package calc is the calculator core: the state value, the actions that
// drive it, the Reduce transition function and the Evaluate arithmetic
// helper. Everything here is pure and synchronous; callers own the State
// and serialize access to it.
package calc
