package monitoring

import (
	"testing"

	"github.com/core-tools/hsu-sensu/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCheck(t *testing.T) {
	check, err := DecodeCheck(CheckConfig{
		"name":                           "web-http",
		"interval":                       10,
		"local_script":                   "healthchecks/http.sh",
		"script_arguments":               "-p 8080",
		"timeout":                        30,
		"override_notification_email":    []interface{}{"ops@example.com"},
		"override_notification_settings": "web",
		"team":                           nil,
		"runbook":                        "http://wiki/web",
	})
	require.NoError(t, err)

	assert.Equal(t, "web-http", check.Name)
	assert.Equal(t, 10.0, check.Interval)
	assert.Equal(t, ScriptKindLocal, check.ScriptKind())
	assert.Equal(t, "healthchecks/http.sh", check.Script())
	assert.Equal(t, "-p 8080", check.ScriptArguments)
	require.NotNil(t, check.Timeout)
	assert.Equal(t, 30.0, *check.Timeout)
	assert.Nil(t, check.Occurrences)
	assert.Nil(t, check.Handlers)
	assert.Nil(t, check.Team)
	assert.Equal(t, []string{"ops@example.com"}, check.OverrideNotificationEmail)
	require.NotNil(t, check.OverrideNotificationSettings)
	assert.Equal(t, "web", *check.OverrideNotificationSettings)
	assert.Equal(t, map[string]interface{}{"runbook": "http://wiki/web"}, check.Extra)
}

func TestDecodeCheck_ServerScript(t *testing.T) {
	check, err := DecodeCheck(CheckConfig{"name": "disk", "interval": 60, "server_script": "check-disk.rb"})
	require.NoError(t, err)

	assert.Equal(t, ScriptKindServer, check.ScriptKind())
	assert.Equal(t, "check-disk.rb", check.Script())
	assert.Equal(t, "server", check.ScriptKind().String())
}

func TestDecodeCheck_WrongType(t *testing.T) {
	_, err := DecodeCheck(CheckConfig{"name": "disk", "interval": 60, "server_script": "x", "aggregate": "yes"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
