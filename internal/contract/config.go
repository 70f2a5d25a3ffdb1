package contract

import "strings"

// ConfigCategory groups orchestrator config keys for panel display.
type ConfigCategory string

const (
	CategoryNetwork       ConfigCategory = "network"
	CategoryCamera        ConfigCategory = "camera"
	CategoryStorage       ConfigCategory = "storage"
	CategoryOrchestration ConfigCategory = "orchestration"
	CategorySystem        ConfigCategory = "system"
	CategoryGeneral       ConfigCategory = "general"
)

// sectionCategories maps backend section names (many) to display categories
// (few). The backend owns section naming; anything it invents that is not
// listed here lands in CategoryGeneral.
var sectionCategories = map[string]ConfigCategory{
	"wifi":      CategoryNetwork,
	"network":   CategoryNetwork,
	"ethernet":  CategoryNetwork,
	"hotspot":   CategoryNetwork,
	"camera":    CategoryCamera,
	"imaging":   CategoryCamera,
	"capture":   CategoryCamera,
	"storage":   CategoryStorage,
	"disk":      CategoryStorage,
	"s3":        CategoryStorage,
	"retention": CategoryStorage,
	"container": CategoryOrchestration,
	"docker":    CategoryOrchestration,
	"scheduler": CategoryOrchestration,
	"session":   CategoryOrchestration,
	"system":    CategorySystem,
	"power":     CategorySystem,
	"telemetry": CategorySystem,
	"logging":   CategorySystem,
}

// CategoryForSection maps a backend section name to a display category.
// Total: unknown sections return CategoryGeneral.
func CategoryForSection(section string) ConfigCategory {
	if c, ok := sectionCategories[strings.ToLower(strings.TrimSpace(section))]; ok {
		return c
	}
	return CategoryGeneral
}

// ConfigEntry is one orchestrator configuration key.
type ConfigEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ValueType string `json:"type"`
	Section   string `json:"section"`
	Editable  bool   `json:"editable"`
	Sensitive bool   `json:"sensitive"`
}

// Category derives the display category from the backend section name.
func (e ConfigEntry) Category() ConfigCategory {
	return CategoryForSection(e.Section)
}

var configValueTypes = map[string]bool{
	"string": true, "int": true, "float": true, "bool": true, "duration": true,
}

func (e *ConfigEntry) Validate() error {
	ve := &ValidationError{Resource: "config_entry"}
	if e.Key == "" {
		ve.addf("key", "required")
	}
	if !configValueTypes[e.ValueType] {
		ve.addf("type", "unrecognized value type %q", e.ValueType)
	}
	return ve.orNil()
}

// ConfigList is the payload of the config listing endpoint.
type ConfigList struct {
	Entries []ConfigEntry `json:"entries"`
}

func (l *ConfigList) Validate() error {
	ve := &ValidationError{Resource: "config_list"}
	for i := range l.Entries {
		if err := l.Entries[i].Validate(); err != nil {
			ve.addf("entries", "entry %d: %v", i, err)
		}
	}
	return ve.orNil()
}
