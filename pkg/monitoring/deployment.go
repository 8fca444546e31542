package monitoring

import (
	"os"
	"strings"

	"github.com/core-tools/hsu-sensu/pkg/errors"
	"github.com/core-tools/hsu-sensu/pkg/logging"
)

// Platform is the operating system family the check will run on.
type Platform int

const (
	PlatformLinux Platform = iota
	PlatformWindows
)

func (p Platform) String() string {
	if p == PlatformWindows {
		return "windows"
	}
	return "linux"
}

// ParsePlatform accepts the platform names used in deployment descriptors.
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(name) {
	case "windows":
		return PlatformWindows, nil
	case "linux":
		return PlatformLinux, nil
	default:
		return PlatformLinux, errors.NewValidationError("unsupported platform: "+name, nil).
			WithContext("supported_platforms", "windows, linux")
	}
}

// NoSlice is the slice value that means the service is not sliced.
const NoSlice = "none"

// InstanceTags are the tags of the instance being deployed to.
type InstanceTags struct {
	Environment   string `yaml:"Environment"`
	Role          string `yaml:"Role"`
	OwningCluster string `yaml:"OwningCluster"`
}

// DeploymentContext is the read-only view of the deployment that the check
// registration stage needs.
type DeploymentContext struct {
	Platform     Platform
	InstanceTags InstanceTags
	// Slice is the service slice being deployed (e.g. blue, green); empty when unset
	Slice string
	// ArchiveDir is where the deployment archive was extracted
	ArchiveDir string
	// HealthcheckSearchPaths are searched in order for server scripts
	HealthcheckSearchPaths []string
	Logger                 logging.Logger
	// Exists probes for a file; nil means os.Stat
	Exists func(path string) bool
}

func (dc *DeploymentContext) logger() logging.Logger {
	if dc.Logger == nil {
		return logging.NewNopLogger()
	}
	return dc.Logger
}

func (dc *DeploymentContext) exists(path string) bool {
	if dc.Exists != nil {
		return dc.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}
