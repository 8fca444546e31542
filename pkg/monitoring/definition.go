package monitoring

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/core-tools/hsu-sensu/pkg/errors"

	"gopkg.in/yaml.v3"
)

const undefinedSetting = "undef"

const deprecatedNotificationEmailWarning = "'notification_email' property is deprecated, please use 'override_notification_email' instead"

// checkDefaults fill unset properties, in order.
var checkDefaults = []struct {
	field string
	apply func(c *Check)
}{
	{"aggregate", func(c *Check) { setBool(&c.Aggregate, false) }},
	{"alert_after", func(c *Check) { setNumber(&c.AlertAfter, 600) }},
	{"handlers", func(c *Check) { setList(&c.Handlers, "default") }},
	{"occurrences", func(c *Check) { setNumber(&c.Occurrences, 5) }},
	{"page", func(c *Check) { setBool(&c.Page, false) }},
	{"project", func(c *Check) { setBool(&c.Project, false) }},
	{"realert_every", func(c *Check) { setNumber(&c.RealertEvery, 30) }},
	{"standalone", func(c *Check) { setBool(&c.Standalone, true) }},
	{"subscribers", func(c *Check) { setList(&c.Subscribers, "sensu-base") }},
	{"ticket", func(c *Check) { setBool(&c.Ticket, false) }},
	{"timeout", func(c *Check) { setNumber(&c.Timeout, 120) }},
}

func setBool(field **bool, value bool) {
	if *field == nil {
		*field = &value
	}
}

func setNumber(field **float64, value float64) {
	if *field == nil {
		*field = &value
	}
}

func setList(field *[]string, value ...string) {
	if *field == nil {
		*field = value
	}
}

// CheckDefinition is the normalized record Sensu loads for one check.
type CheckDefinition struct {
	Command           string
	Interval          float64
	Aggregate         bool
	AlertAfter        float64
	Handlers          []string
	NotificationEmail string
	Occurrences       float64
	Page              bool
	Project           bool
	RealertEvery      float64
	Refresh           *float64
	SlackChannel      string
	Standalone        bool
	Subscribers       []string
	Team              *string
	Ticket            bool
	Timeout           float64

	// TTL tags are only set on non-Windows platforms
	TTLEnvironment   *string
	TTLOwningCluster *string
	TTLRole          *string

	Extra map[string]interface{}
}

// Fields flattens the definition into the property map written to Sensu.
// Computed properties take precedence over passthrough ones.
func (d *CheckDefinition) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(d.Extra)+20)
	for k, v := range d.Extra {
		fields[k] = v
	}

	fields["command"] = d.Command
	fields["interval"] = d.Interval
	fields["aggregate"] = d.Aggregate
	fields["alert_after"] = d.AlertAfter
	fields["handlers"] = d.Handlers
	fields["notification_email"] = d.NotificationEmail
	fields["occurrences"] = d.Occurrences
	fields["page"] = d.Page
	fields["project"] = d.Project
	fields["realert_every"] = d.RealertEvery
	fields["slack_channel"] = d.SlackChannel
	fields["standalone"] = d.Standalone
	fields["subscribers"] = d.Subscribers
	fields["ticket"] = d.Ticket
	fields["timeout"] = d.Timeout

	if d.Team != nil {
		fields["team"] = *d.Team
	} else {
		fields["team"] = nil
	}
	if d.Refresh != nil {
		fields["refresh"] = *d.Refresh
	}
	if d.TTLEnvironment != nil {
		fields["ttl_environment"] = *d.TTLEnvironment
	}
	if d.TTLOwningCluster != nil {
		fields["ttl_owningcluster"] = *d.TTLOwningCluster
	}
	if d.TTLRole != nil {
		fields["ttl_role"] = *d.TTLRole
	}

	return fields
}

func (d *CheckDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields())
}

func (d *CheckDefinition) MarshalYAML() (interface{}, error) {
	return d.Fields(), nil
}

// Document is the file Sensu reads check definitions from.
type Document struct {
	Checks map[string]*CheckDefinition `json:"checks" yaml:"checks"`
}

func NewDocument() *Document {
	return &Document{Checks: make(map[string]*CheckDefinition)}
}

// Names returns the check names in the document, sorted.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Checks))
	for name := range d.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds every check of other to d.
func (d *Document) Merge(other *Document) error {
	for _, name := range other.Names() {
		if _, exists := d.Checks[name]; exists {
			return errors.NewDeploymentError(
				fmt.Sprintf("Sensu check definitions require unique names, '%s' is defined more than once", name),
				nil,
			).WithContext("name", name)
		}
		d.Checks[name] = other.Checks[name]
	}
	return nil
}

// Encode writes the document as "json" or "yaml".
func (d *Document) Encode(w io.Writer, format string) error {
	switch format {
	case "json", "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(d); err != nil {
			return errors.NewIOError("failed to encode check definitions as JSON", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(d); err != nil {
			return errors.NewIOError("failed to encode check definitions as YAML", err)
		}
		if err := encoder.Close(); err != nil {
			return errors.NewIOError("failed to flush YAML encoder", err)
		}
	default:
		return errors.NewValidationError("unsupported output format: "+format, nil).
			WithContext("supported_formats", "json, yaml")
	}
	return nil
}

// GenerateCheckDefinition builds the Sensu definition for a validated check
// whose script resolved to scriptPath.
func GenerateCheckDefinition(check *Check, scriptPath string, dc *DeploymentContext) *Document {
	c := *check

	if c.NotificationEmail != nil && c.OverrideNotificationEmail == nil {
		dc.logger().Warnf(deprecatedNotificationEmailWarning)
		c.OverrideNotificationEmail = c.NotificationEmail
	}

	for _, d := range checkDefaults {
		d.apply(&c)
	}

	definition := &CheckDefinition{
		Command:           BuildCommand(dc.Platform, c.ScriptKind(), scriptPath, c.ScriptArguments, dc.Slice),
		Interval:          c.Interval,
		Aggregate:         *c.Aggregate,
		AlertAfter:        *c.AlertAfter,
		Handlers:          c.Handlers,
		NotificationEmail: joinOrUndefined(c.OverrideNotificationEmail),
		Occurrences:       *c.Occurrences,
		Page:              *c.Page,
		Project:           *c.Project,
		RealertEvery:      *c.RealertEvery,
		Refresh:           c.Refresh,
		SlackChannel:      joinOrUndefined(c.OverrideChatChannel),
		Standalone:        *c.Standalone,
		Subscribers:       c.Subscribers,
		Team:              c.Team,
		Ticket:            *c.Ticket,
		Timeout:           *c.Timeout,
		Extra:             c.Extra,
	}

	if c.OverrideNotificationSettings != nil {
		definition.Team = c.OverrideNotificationSettings
	}

	if dc.Platform != PlatformWindows {
		tags := dc.InstanceTags
		definition.TTLEnvironment = &tags.Environment
		definition.TTLOwningCluster = &tags.OwningCluster
		definition.TTLRole = &tags.Role
	}

	doc := NewDocument()
	doc.Checks[c.Name] = definition
	return doc
}

func joinOrUndefined(values []string) string {
	if values == nil {
		return undefinedSetting
	}
	return strings.Join(values, ",")
}
