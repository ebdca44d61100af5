package rule

import (
	"github.com/invopop/jsonschema"
)

// Record is the persisted form of a [Rule].
type Record struct {
	// IsEnabled controls whether the rule is applied. Defaults to true.
	IsEnabled *bool `json:"is_enabled,omitempty" jsonschema:"title=Enabled" toml:"is_enabled,omitempty"`
	// Type selects the rule variant.
	Type Kind `json:"type" jsonschema:"title=Type,enum=Raw,enum=DateTime" toml:"type"`
	// Raw is the literal pattern to search for.
	Raw string `json:"raw" jsonschema:"title=Pattern" toml:"raw"`
	// Replace is the replacement text of a Raw rule. Required when Type is Raw;
	// an empty string deletes the pattern.
	Replace *string `json:"replace,omitempty" jsonschema:"title=Replacement" toml:"replace,omitempty"`
	// Format is the strftime format of a DateTime rule. Required when Type is
	// DateTime.
	Format *string `json:"format,omitempty" jsonschema:"title=Time Format" toml:"format,omitempty"`
}

// JSONSchemaExtend requires the field each [Kind] reads from.
func (Record) JSONSchemaExtend(jss *jsonschema.Schema) {
	jss.AllOf = append(jss.AllOf,
		requireForKind(KindRaw, "replace"),
		requireForKind(KindDateTime, "format"),
	)
}

func requireForKind(k Kind, field string) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	_, _ = props.Set("type", &jsonschema.Schema{Const: string(k)})

	return &jsonschema.Schema{
		If: &jsonschema.Schema{
			Properties: props,
			Required:   []string{"type"},
		},
		Then: &jsonschema.Schema{
			Required: []string{field},
		},
	}
}

// Enabled returns the effective enabled flag of the record.
func (r Record) Enabled() bool {
	return r.IsEnabled == nil || *r.IsEnabled
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}
