// Package ui renders the interactive watch view.
//
// The watch view drives the same reconciliation loop as the plain command,
// but inside a Bubble Tea program that shows a styled box per slot and a
// spinner while waiting for the physical controller. Each tick runs one
// engine pass on the program's goroutine, so the engine stays
// single-threaded.
package ui
