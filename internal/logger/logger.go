package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the package-level sugared logger. Safe to use before
	// Initialize is called; it starts out as a no-op sink.
	Logger *zap.SugaredLogger

	// JSONOutput records which mode Initialize configured, for components
	// that need to branch on it.
	JSONOutput bool
)

func init() {
	// Never let an early log call before Initialize panic on a nil logger.
	Logger = zap.NewNop().Sugar()
}

// Initialize configures the global logger. jsonOutput selects structured
// JSON (for log aggregation) over the minimal human console format.
func Initialize(jsonOutput bool) error {
	JSONOutput = jsonOutput

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapLogger, err = cfg.Build()
	} else {
		zapLogger = zap.New(
			zapcore.NewCore(
				newMinimalEncoder(),
				zapcore.AddSync(os.Stdout),
				zap.InfoLevel,
			),
		)
	}
	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Named returns a logger scoped to the given subsystem name, e.g. "schedule"
// or "satellite". The minimal encoder shows this as a colored component tag.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
