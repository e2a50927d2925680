package logger

import "go.uber.org/zap"

// Subsystem glyphs, used as a structured "sym" field so log lines stay
// greppable by subsystem without string-matching the message.
const (
	SymSchedule  = "⟁" // scheduler/ticker
	SymFetch     = "⛛" // HTTP fetch / feed pull
	SymSatellite = "☾" // satellite store mutation
	SymFacade    = "✉" // command/response handling
	SymRender    = "▵" // image rendering/rasterizing
	SymHistory   = "⌘" // execution history / ops diagnostics
)

const fieldSym = "sym"

// With returns a logger tagged with the given subsystem symbol.
func With(symbol string) *zap.SugaredLogger {
	return Logger.With(fieldSym, symbol)
}
