package monitoring

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/core-tools/hsu-sensu/pkg/errors"
)

const emailExpression = `^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`

var emailPattern = regexp.MustCompile(emailExpression)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindStringList
)

func (k fieldKind) String() string {
	switch k {
	case kindNumber:
		return "number"
	case kindStringList:
		return "array"
	default:
		return "string"
	}
}

// fieldRule describes one property of a check block.
type fieldRule struct {
	name      string
	kind      fieldKind
	required  bool
	minLength int            // strings: characters, lists: items
	pattern   *regexp.Regexp // strings, or every list item
	expr      string
}

// checkSchema is evaluated top to bottom; the first failing rule wins.
var checkSchema = []fieldRule{
	{name: "name", kind: kindString, required: true},
	{name: "interval", kind: kindNumber, required: true},
	{name: "local_script", kind: kindString, minLength: 1},
	{name: "server_script", kind: kindString, minLength: 1},
	{name: "script_arguments", kind: kindString},
	{name: "realert_every", kind: kindNumber},
	{name: "timeout", kind: kindNumber},
	{name: "occurrences", kind: kindNumber},
	{name: "refresh", kind: kindNumber},
	{name: "override_notification_email", kind: kindStringList, minLength: 1, pattern: emailPattern, expr: emailExpression},
	{name: "notification_email", kind: kindStringList, minLength: 1, pattern: emailPattern, expr: emailExpression},
	{name: "override_chat_channel", kind: kindStringList, minLength: 1},
	{name: "override_notification_settings", kind: kindString},
}

func validateSchema(check CheckConfig) error {
	for _, rule := range checkSchema {
		value, ok := check[rule.name]
		if !ok {
			if rule.required {
				return schemaError(rule.name, nil, fmt.Sprintf("'%s' is a required property", rule.name))
			}
			continue
		}
		if err := rule.validate(value); err != nil {
			return err
		}
	}
	return nil
}

func (r fieldRule) validate(value interface{}) error {
	switch r.kind {
	case kindNumber:
		if !isNumber(value) {
			return r.typeError(r.name, value)
		}

	case kindString:
		return r.validateString(r.name, value)

	case kindStringList:
		items, ok := value.([]interface{})
		if !ok {
			if strs, isStrs := value.([]string); isStrs {
				items = make([]interface{}, len(strs))
				for i, s := range strs {
					items[i] = s
				}
			} else {
				return r.typeError(r.name, value)
			}
		}
		if len(items) < r.minLength {
			return schemaError(r.name, value, fmt.Sprintf("%s is too short", repr(value)))
		}
		for i, item := range items {
			if err := r.validateString(fmt.Sprintf("%s[%d]", r.name, i), item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r fieldRule) validateString(property string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return schemaError(property, value, fmt.Sprintf("%s is not of type 'string'", repr(value)))
	}
	if r.kind == kindString && len(s) < r.minLength {
		return schemaError(property, value, fmt.Sprintf("%s is too short", repr(value)))
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		return schemaError(property, value, fmt.Sprintf("%s does not match '%s'", repr(value), r.expr))
	}
	return nil
}

func (r fieldRule) typeError(property string, value interface{}) error {
	return schemaError(property, value, fmt.Sprintf("%s is not of type '%s'", repr(value), r.kind))
}

func schemaError(property string, value interface{}, reason string) error {
	return errors.NewValidationError(
		fmt.Sprintf("failed validating property '%s': %s", property, reason),
		nil,
	).WithContext("property", property).WithContext("value", value)
}

func isNumber(value interface{}) bool {
	if value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// repr renders a value the way it is quoted in validation messages.
func repr(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("'%s'", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
