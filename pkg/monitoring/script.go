package monitoring

import (
	"fmt"
	"path/filepath"

	"github.com/core-tools/hsu-sensu/pkg/errors"
)

// ValidateCheckScript confirms the script backing a check exists and returns
// its resolved path. Local scripts are looked up in the deployment archive.
// Server scripts are probed as given when absolute, then under searchPath
// (when not empty), then under each of the deployment's healthcheck search
// paths.
func ValidateCheckScript(check *Check, searchPath string, dc *DeploymentContext) (string, error) {
	switch check.ScriptKind() {
	case ScriptKindLocal:
		path := filepath.Join(dc.ArchiveDir, check.LocalScript)
		if !dc.exists(path) {
			return "", errors.NewDeploymentError(
				fmt.Sprintf("Couldn't find Sensu check script: %s", path),
				nil,
			).WithContext("name", check.Name).WithContext("path", path)
		}
		return path, nil

	case ScriptKindServer:
		candidates := serverScriptCandidates(check.ServerScript, searchPath, dc.HealthcheckSearchPaths)
		for _, path := range candidates {
			if dc.exists(path) {
				dc.logger().Debugf("Resolved Sensu plugin script, name: %s, path: %s", check.Name, path)
				return path, nil
			}
		}
		return "", errors.NewDeploymentError(
			fmt.Sprintf("Couldn't find Sensu plugin script: %s, paths searched: %v", check.ServerScript, candidates),
			nil,
		).WithContext("name", check.Name).WithContext("searched", candidates)

	default:
		return "", errors.NewDeploymentError(
			fmt.Sprintf("Check '%s' has no script defined, you need at least one of 'local_script' or 'server_script'", check.Name),
			nil,
		)
	}
}

func serverScriptCandidates(script, searchPath string, searchPaths []string) []string {
	if filepath.IsAbs(script) {
		return []string{script}
	}

	candidates := make([]string, 0, len(searchPaths)+1)
	if searchPath != "" {
		candidates = append(candidates, filepath.Join(searchPath, script))
	}
	for _, dir := range searchPaths {
		candidates = append(candidates, filepath.Join(dir, script))
	}
	return candidates
}
