package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AllCategories lists every category a device can be assigned
var AllCategories = []Category{Router, Device, Other}

// Category is the coarse bucket a discovered device is placed in
type Category int

const (
	Device Category = iota
	Router
	Other
)

func (c Category) String() string {
	switch c {
	case Router:
		return "Router"
	case Device:
		return "Device"
	case Other:
		return "Other"
	default:
		return "unknown"
	}
}

// ParseCategory returns the category matching name (case-insensitive)
func ParseCategory(name string) (Category, error) {
	for _, c := range AllCategories {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return Device, fmt.Errorf("invalid category: %s", name)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
