package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValueType is the closed set of attribute value kinds.
type ValueType int

const (
	ValueText ValueType = iota
	ValueNumber
	ValueDate
	ValueChoice
	ValueBoolean
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

func (v ValueType) String() string {
	switch v {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueDate:
		return "date"
	case ValueChoice:
		return "choice"
	case ValueBoolean:
		return "boolean"
	default:
		return "text"
	}
}

// ParseValueType accepts both the canonical names and the catalog's legacy
// names ("String", "Dropdown"). Anything unrecognised is text.
func ParseValueType(s string) ValueType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number", "numeric", "int", "decimal":
		return ValueNumber
	case "date":
		return ValueDate
	case "choice", "dropdown", "select":
		return ValueChoice
	case "boolean", "bool":
		return ValueBoolean
	default:
		return ValueText
	}
}

func (v ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *ValueType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = ParseValueType(s)
	return nil
}

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// CheckValue reports whether value is acceptable for the type. An empty
// value is always acceptable; emptiness is handled by row filtering.
func (v ValueType) CheckValue(value string, allowed []string) bool {
	if value == "" {
		return true
	}
	switch v {
	case ValueText:
		return true
	case ValueNumber:
		return numberPattern.MatchString(value)
	case ValueDate:
		_, err := time.Parse(DateLayout, value)
		return err == nil
	case ValueChoice:
		if len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	case ValueBoolean:
		_, err := strconv.ParseBool(value)
		return err == nil
	default:
		return false
	}
}

// AttributeDefinition is one entry of the external attribute catalog.
type AttributeDefinition struct {
	ID            int64            `json:"id"`
	Name          string           `json:"attributeName"`
	ValueType     ValueType        `json:"dataType"`
	Required      bool             `json:"isRequired"`
	AllowedValues []AttributeValue `json:"values"`
}

// AttributeValue is one permitted value of a choice attribute.
type AttributeValue struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// Values returns the permitted values in catalog order.
func (d AttributeDefinition) Values() []string {
	out := make([]string, 0, len(d.AllowedValues))
	for _, v := range d.AllowedValues {
		out = append(out, v.Value)
	}
	return out
}
