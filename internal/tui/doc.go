// Package tui renders file system entries and asks for confirmations on
// the terminal.
package tui
