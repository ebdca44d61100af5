// Package v1beta1 holds the versioned header shared by tempo's configuration
// documents.
//
// Profiles are plain records and carry no header; only the application
// configuration (kind Configuration) is versioned.
package v1beta1

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// APIVersion is written to every configuration document tempo generates.
const APIVersion = "tempo.jacobcolvin.com/v1beta1"

// ValidAPIVersions lists the apiVersion values tempo accepts when reading a
// configuration document.
var ValidAPIVersions = []string{APIVersion}

// TypeMeta is the apiVersion/kind header of a configuration document.
type TypeMeta struct {
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	Kind       string `json:"kind" jsonschema:"title=Kind"`
}

func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is a configuration document that pkg/config can load. EnsureDefaults
// fills unset fields after decoding.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ConstrainTypeMeta limits the apiVersion and kind properties of jss to the
// given values, so editors and the loader reject a document written for
// another tool or version. It panics if jss has no header properties, which
// means it was not generated from a type embedding [TypeMeta].
func ConstrainTypeMeta(jss *jsonschema.Schema, apiVersions, kinds []string) {
	constrainProperty(jss, "apiVersion", "API Version", apiVersions)
	constrainProperty(jss, "kind", "Kind", kinds)
}

func constrainProperty(jss *jsonschema.Schema, name, title string, values []string) {
	prop, ok := jss.Properties.Get(name)
	if !ok {
		panic(fmt.Sprintf("schema has no %q property", name))
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(name, prop)
}
