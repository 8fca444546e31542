package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type recorded struct {
	level string
	msg   string
}

func recordingFuncs(out *[]recorded) LogFuncs {
	rec := func(level string) LogFunc {
		return func(format string, args ...interface{}) {
			*out = append(*out, recorded{level: level, msg: fmt.Sprintf(format, args...)})
		}
	}
	return LogFuncs{
		Debugf: rec("debug"),
		Infof:  rec("info"),
		Warnf:  rec("warn"),
		Errorf: rec("error"),
	}
}

func TestLogger_Prefix(t *testing.T) {
	var out []recorded
	logger := NewLogger("module: sensu , ", recordingFuncs(&out))

	logger.Warnf("check %s deprecated", "web-http")
	logger.LogLevelf(LogLevelError, "failed")

	require.Len(t, out, 2)
	assert.Equal(t, recorded{"warn", "module: sensu , check web-http deprecated"}, out[0])
	assert.Equal(t, recorded{"error", "module: sensu , failed"}, out[1])
}

func TestLogger_LogLevelfOverrides(t *testing.T) {
	var levels []int
	logger := NewLogger("", LogFuncs{
		LogLevelf: func(level int, format string, args ...interface{}) {
			levels = append(levels, level)
		},
	})

	logger.Debugf("a")
	logger.Infof("b")
	logger.Warnf("c")
	logger.Errorf("d")

	assert.Equal(t, []int{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}, levels)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Debugf("x")
		logger.Warnf("y %d", 1)
	})
}

func TestWithMinLevel(t *testing.T) {
	var out []recorded
	logger := NewLogger("", WithMinLevel(LogLevelWarn, recordingFuncs(&out)))

	logger.Debugf("debug")
	logger.Infof("info")
	logger.Warnf("warn")
	logger.Errorf("error")

	require.Len(t, out, 2)
	assert.Equal(t, "warn", out[0].msg)
	assert.Equal(t, "error", out[1].msg)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		ok    bool
	}{
		{"debug", LogLevelDebug, true},
		{"info", LogLevelInfo, true},
		{"", LogLevelInfo, true},
		{"warning", LogLevelWarn, true},
		{"error", LogLevelError, true},
		{"verbose", LogLevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestZapLogFuncs_JSON(t *testing.T) {
	var buf bytes.Buffer
	funcs, sync, err := newZapLogFuncs(ZapConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger := NewLogger("", funcs)
	logger.Infof("dropped")
	logger.Warnf("'%s' property is deprecated", "notification_email")
	require.NoError(t, sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "'notification_email' property is deprecated", entry["msg"])
	assert.Contains(t, entry, "timestamp")
}

func TestZapLogFuncs_InvalidConfig(t *testing.T) {
	_, _, err := newZapLogFuncs(ZapConfig{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)

	_, _, err = NewZapLogFuncs(ZapConfig{Level: "info", Output: "/var/log/x.log"})
	assert.Error(t, err)
}
