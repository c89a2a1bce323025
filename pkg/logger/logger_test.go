package logger_test

import (
	"context"
	"testing"
	"unshorten/pkg/logger"

	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		debug       bool
	}{
		{
			name:        "development",
			environment: logger.DevelopmentEnvironment,
		},
		{
			name:        "production",
			environment: logger.ProductionEnvironment,
		},
		{
			name:        "production with debug override",
			environment: logger.ProductionEnvironment,
			debug:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				logger.Setup(tt.environment, tt.debug)
			})

			l := logger.Get(context.Background())
			require.NotNil(t, l)
			if tt.debug {
				require.True(t, l.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

func TestGet(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, false)

	ctx := context.Background()
	l := logger.Get(ctx)
	require.NotNil(t, l, "should return default logger when context has no logger")

	customLogger, _ := zap.NewDevelopment()
	ctxWithLogger := logger.WithLogger(ctx, customLogger)
	l = logger.Get(ctxWithLogger)
	require.Equal(t, customLogger, l, "should return logger from context")
}

func TestWithFields(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, false)

	ctx := logger.WithFields(context.Background(), zap.String("url", "http://short.ly/a"))
	require.NotEqual(t, logger.Get(context.Background()), logger.Get(ctx))
}
