// Package ui holds the terminal color themes shared by the CLI, the REPL and
// the interactive console. ANSI escape codes are exposed through Color*
// accessors so callers never read the active theme directly.
package ui
