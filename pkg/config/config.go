package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/core-tools/hsu-sensu/pkg/errors"
	"github.com/core-tools/hsu-sensu/pkg/logging"
	"github.com/core-tools/hsu-sensu/pkg/monitoring"

	"gopkg.in/yaml.v3"
)

// Descriptor is the part of a deployment descriptor the Sensu stage reads
type Descriptor struct {
	Platform     string                  `yaml:"platform,omitempty"`
	ArchiveDir   string                  `yaml:"archive_dir,omitempty"`
	InstanceTags monitoring.InstanceTags `yaml:"instance_tags"`
	Service      ServiceConfig           `yaml:"service"`
	Sensu        SensuConfig             `yaml:"sensu"`
}

type ServiceConfig struct {
	Name  string `yaml:"name,omitempty"`
	Slice string `yaml:"slice,omitempty"` // blue, green, none
}

type SensuConfig struct {
	HealthcheckSearchPaths []string                          `yaml:"healthcheck_search_paths,omitempty"`
	Checks                 map[string]monitoring.CheckConfig `yaml:"checks"`
}

// LoadDescriptorFromFile loads a deployment descriptor from a YAML file.
// A relative or missing archive_dir is taken relative to the file's directory.
func LoadDescriptorFromFile(filename string) (*Descriptor, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read deployment descriptor", err).WithContext("filename", filename)
	}

	baseDir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, errors.NewIOError("failed to get absolute path", err).WithContext("filename", filename)
	}

	descriptor, err := LoadDescriptor(data, baseDir)
	if err != nil {
		return nil, errors.AddContext(err, "filename", filename)
	}
	return descriptor, nil
}

// LoadDescriptor parses, defaults and validates descriptor YAML.
func LoadDescriptor(data []byte, baseDir string) (*Descriptor, error) {
	var descriptor Descriptor
	if err := yaml.Unmarshal(data, &descriptor); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML deployment descriptor", err)
	}

	setDescriptorDefaults(&descriptor, baseDir)

	if err := ValidateDescriptor(&descriptor); err != nil {
		return nil, err
	}

	return &descriptor, nil
}

func setDescriptorDefaults(descriptor *Descriptor, baseDir string) {
	if descriptor.Platform == "" {
		if runtime.GOOS == "windows" {
			descriptor.Platform = "windows"
		} else {
			descriptor.Platform = "linux"
		}
	}
	descriptor.Platform = strings.ToLower(descriptor.Platform)

	if descriptor.ArchiveDir == "" {
		descriptor.ArchiveDir = baseDir
	} else if !filepath.IsAbs(descriptor.ArchiveDir) {
		descriptor.ArchiveDir = filepath.Join(baseDir, descriptor.ArchiveDir)
	}

	if descriptor.Sensu.Checks == nil {
		descriptor.Sensu.Checks = make(map[string]monitoring.CheckConfig)
	}
}

// ValidateDescriptor validates the descriptor fields the stage depends on.
// Check blocks themselves are validated by the monitoring package.
func ValidateDescriptor(descriptor *Descriptor) error {
	if descriptor == nil {
		return errors.NewValidationError("deployment descriptor cannot be nil", nil)
	}

	if _, err := monitoring.ParsePlatform(descriptor.Platform); err != nil {
		return errors.NewValidationError("invalid deployment descriptor", err)
	}

	for i, path := range descriptor.Sensu.HealthcheckSearchPaths {
		if path == "" {
			return errors.NewValidationError("healthcheck search path cannot be empty", nil).
				WithContext("index", i)
		}
	}

	for id, check := range descriptor.Sensu.Checks {
		if check == nil {
			return errors.NewValidationError("Sensu check '"+id+"' has no properties", nil).
				WithContext("check_id", id)
		}
	}

	return nil
}

// DeploymentContext builds the stage's view of the deployment.
func (d *Descriptor) DeploymentContext(logger logging.Logger) (*monitoring.DeploymentContext, error) {
	platform, err := monitoring.ParsePlatform(d.Platform)
	if err != nil {
		return nil, err
	}

	return &monitoring.DeploymentContext{
		Platform:               platform,
		InstanceTags:           d.InstanceTags,
		Slice:                  d.Service.Slice,
		ArchiveDir:             d.ArchiveDir,
		HealthcheckSearchPaths: d.Sensu.HealthcheckSearchPaths,
		Logger:                 logger,
	}, nil
}
