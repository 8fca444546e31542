package monitoring

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-sensu/pkg/errors"

	"golang.org/x/sync/errgroup"
)

// RegisterOptions tune a RegisterChecks run.
type RegisterOptions struct {
	// SearchPath is tried before the deployment's healthcheck search paths
	// when resolving server scripts
	SearchPath string
	// Concurrency bounds how many checks are processed at once; values
	// below 1 process checks one at a time
	Concurrency int
}

// RegisterChecks validates every check of a deployment and assembles the
// document of their Sensu definitions. Any failure aborts the whole batch.
func RegisterChecks(ctx context.Context, checks map[string]CheckConfig, dc *DeploymentContext, opts RegisterOptions) (*Document, error) {
	logger := dc.logger()

	if err := ValidateUniqueIDs(checks); err != nil {
		return nil, err
	}
	if err := ValidateUniqueNames(checks); err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	ids := sortedIDs(checks)
	docs := make([]*Document, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.NewDeploymentError("check registration cancelled", err).WithContext("check_id", id)
			}

			doc, err := BuildCheckDefinition(id, checks[id], opts.SearchPath, dc)
			if err != nil {
				logger.Errorf("Sensu check registration failed, id: %s, error: %v", id, err)
				kind := errors.KindOf(err)
				if kind == "" {
					kind = errors.ErrorTypeInternal
				}
				return errors.NewDomainError(
					kind,
					fmt.Sprintf("invalid Sensu check '%s'", id),
					err,
				).WithContext("check_id", id)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewDocument()
	for _, doc := range docs {
		if err := result.Merge(doc); err != nil {
			return nil, err
		}
	}

	logger.Infof("Registered Sensu checks, count: %d, names: %v", len(result.Checks), result.Names())
	return result, nil
}

// BuildCheckDefinition runs validation, script resolution and generation
// for a single check.
func BuildCheckDefinition(id string, raw CheckConfig, searchPath string, dc *DeploymentContext) (*Document, error) {
	if err := ValidateCheckProperties(id, raw); err != nil {
		return nil, err
	}

	check, err := DecodeCheck(raw)
	if err != nil {
		return nil, errors.AddContext(err, "check_id", id)
	}

	scriptPath, err := ValidateCheckScript(check, searchPath, dc)
	if err != nil {
		return nil, errors.AddContext(err, "check_id", id)
	}

	dc.logger().Debugf("Generating Sensu check definition, id: %s, name: %s, script: %s", id, check.Name, scriptPath)
	return GenerateCheckDefinition(check, scriptPath, dc), nil
}
