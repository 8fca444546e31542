package monitoring

import (
	"fmt"
	"sync"
)

// TestLogger records warnings and errors; safe for concurrent use
type TestLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *TestLogger) LogLevelf(level int, format string, args ...interface{}) {}
func (l *TestLogger) Debugf(format string, args ...interface{})               {}
func (l *TestLogger) Infof(format string, args ...interface{})                {}

func (l *TestLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnings...)
}

// newTestDeployment mirrors a Windows deployment with no slice, every file
// present.
func newTestDeployment() (*DeploymentContext, *TestLogger) {
	logger := &TestLogger{}
	return &DeploymentContext{
		Platform: PlatformWindows,
		InstanceTags: InstanceTags{
			Environment:   "local",
			Role:          "role",
			OwningCluster: "cluster",
		},
		HealthcheckSearchPaths: []string{"sensu_plugins_path"},
		Logger:                 logger,
		Exists:                 func(string) bool { return true },
	}, logger
}

func mustDecode(raw CheckConfig) *Check {
	check, err := DecodeCheck(raw)
	if err != nil {
		panic(err)
	}
	return check
}
