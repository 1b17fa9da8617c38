// Package keypad is the input side of the calculator: the on-screen button
// grid, the keyboard mapping and a Listener that feeds typed keys to a
// dispatcher.
package keypad
