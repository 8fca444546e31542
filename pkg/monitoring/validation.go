package monitoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/core-tools/hsu-sensu/pkg/errors"
)

// SensuNameExpression is the character set Sensu accepts for check names
const SensuNameExpression = `^[\w\.-]+$`

var sensuNamePattern = regexp.MustCompile(SensuNameExpression)

// ValidateCheckProperties validates a single check block: schema first, then
// the rules that cross property boundaries.
func ValidateCheckProperties(id string, check CheckConfig) error {
	if err := validateSchema(check); err != nil {
		return errors.AddContext(err, "check_id", id)
	}

	_, hasLocal := check["local_script"]
	_, hasServer := check["server_script"]

	if !hasLocal && !hasServer {
		return errors.NewDeploymentError(
			fmt.Sprintf("Check '%s' has no script defined, you need at least one of 'local_script' or 'server_script'", id),
			nil,
		).WithContext("check_id", id)
	}

	if hasLocal && hasServer {
		return errors.NewDeploymentError(
			fmt.Sprintf("Check '%s' defines both scripts, you can use either 'local_script' or 'server_script', not both", id),
			nil,
		).WithContext("check_id", id)
	}

	name := check["name"].(string)
	if !sensuNamePattern.MatchString(name) {
		return errors.NewDeploymentError(
			fmt.Sprintf("Check '%s' name '%s' does not match required Sensu name expression %s", id, name, SensuNameExpression),
			nil,
		).WithContext("check_id", id).WithContext("name", name)
	}

	return nil
}

// ValidateUniqueIDs fails when two check ids differ only in letter case.
func ValidateUniqueIDs(checks map[string]CheckConfig) error {
	seen := make(map[string][]string)
	for _, id := range sortedIDs(checks) {
		key := strings.ToLower(id)
		seen[key] = append(seen[key], id)
	}

	for _, id := range sortedIDs(checks) {
		if ids := seen[strings.ToLower(id)]; len(ids) > 1 {
			return errors.NewDeploymentError(
				fmt.Sprintf("Sensu check definitions require unique ids (case insensitive), found duplicates: %s", strings.Join(ids, ", ")),
				nil,
			).WithContext("check_ids", ids)
		}
	}

	return nil
}

// ValidateUniqueNames fails when two checks share a name. Checks without a
// string name are left to ValidateCheckProperties.
func ValidateUniqueNames(checks map[string]CheckConfig) error {
	seen := make(map[string]string)
	for _, id := range sortedIDs(checks) {
		name, ok := checks[id]["name"].(string)
		if !ok {
			continue
		}
		if prev, exists := seen[name]; exists {
			return errors.NewDeploymentError(
				fmt.Sprintf("Sensu check definitions require unique names, '%s' is used by checks '%s' and '%s'", name, prev, id),
				nil,
			).WithContext("name", name)
		}
		seen[name] = id
	}

	return nil
}

func sortedIDs(checks map[string]CheckConfig) []string {
	ids := make([]string, 0, len(checks))
	for id := range checks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
