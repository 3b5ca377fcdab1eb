// Package ui holds the color themes shared by the console presenter and the
// dashboard. Colors are disabled with --no-color or the NO_COLOR variable.
package ui
