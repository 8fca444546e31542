package monitoring

import (
	"github.com/core-tools/hsu-sensu/pkg/errors"

	"github.com/mitchellh/mapstructure"
)

// CheckConfig is a single check block exactly as it appears under
// sensu.checks in the deployment descriptor.
type CheckConfig map[string]interface{}

// ScriptKind tells where the script backing a check lives.
type ScriptKind int

const (
	ScriptKindNone ScriptKind = iota
	// ScriptKindLocal scripts ship inside the deployment archive
	ScriptKindLocal
	// ScriptKindServer scripts are Sensu plugins already installed on the host
	ScriptKindServer
)

func (k ScriptKind) String() string {
	switch k {
	case ScriptKindLocal:
		return "local"
	case ScriptKindServer:
		return "server"
	default:
		return "none"
	}
}

// Check is the typed form of a CheckConfig. Pointer fields and nil slices
// mean the property was not set in the descriptor.
type Check struct {
	Name            string  `mapstructure:"name"`
	Interval        float64 `mapstructure:"interval"`
	LocalScript     string  `mapstructure:"local_script"`
	ServerScript    string  `mapstructure:"server_script"`
	ScriptArguments string  `mapstructure:"script_arguments"`

	Aggregate    *bool    `mapstructure:"aggregate"`
	AlertAfter   *float64 `mapstructure:"alert_after"`
	Handlers     []string `mapstructure:"handlers"`
	Occurrences  *float64 `mapstructure:"occurrences"`
	Page         *bool    `mapstructure:"page"`
	Project      *bool    `mapstructure:"project"`
	RealertEvery *float64 `mapstructure:"realert_every"`
	Refresh      *float64 `mapstructure:"refresh"`
	Standalone   *bool    `mapstructure:"standalone"`
	Subscribers  []string `mapstructure:"subscribers"`
	Ticket       *bool    `mapstructure:"ticket"`
	Timeout      *float64 `mapstructure:"timeout"`

	Team                         *string `mapstructure:"team"`
	OverrideNotificationSettings *string `mapstructure:"override_notification_settings"`

	NotificationEmail         []string `mapstructure:"notification_email"` // deprecated
	OverrideNotificationEmail []string `mapstructure:"override_notification_email"`
	OverrideChatChannel       []string `mapstructure:"override_chat_channel"`

	// Extra holds unrecognized properties, passed through to the definition
	Extra map[string]interface{} `mapstructure:",remain"`
}

// ScriptKind reports which script property is set.
func (c *Check) ScriptKind() ScriptKind {
	switch {
	case c.LocalScript != "":
		return ScriptKindLocal
	case c.ServerScript != "":
		return ScriptKindServer
	default:
		return ScriptKindNone
	}
}

// Script returns the configured script path, whichever kind it is.
func (c *Check) Script() string {
	if c.LocalScript != "" {
		return c.LocalScript
	}
	return c.ServerScript
}

// DecodeCheck converts a raw check block into a Check. It expects the block
// to have passed ValidateCheckProperties already.
func DecodeCheck(raw CheckConfig) (*Check, error) {
	var check Check
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &check,
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to create check decoder", err)
	}

	if err := decoder.Decode(map[string]interface{}(raw)); err != nil {
		return nil, errors.NewValidationError("failed to decode check properties", err)
	}

	return &check, nil
}
