package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until InitLogger runs, so packages and tests can log freely.
var Log = zap.NewNop()

// InitLogger builds the global logger: coloured console output in debug mode,
// JSON in release mode.
func InitLogger(mode string) {
	var conf zap.Config

	if mode == "release" {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	conf.OutputPaths = []string{"stdout"}

	log, err := conf.Build(zap.Fields(zap.String("service", "bj-service")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	Log = log
	zap.ReplaceGlobals(Log)
}

// Named returns a child of the global logger for one component.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}
