// Command schemagen writes the JSON schema of tempo's configuration file or
// of a profile record, for use by editors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/yaml"
)

var errUnknownKind = errors.New("unknown schema kind")

var (
	kind    = flag.String("kind", "config", "Schema to generate, one of: config, profile")
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
)

func main() {
	flag.Parse()

	jsData, err := generate(*kind)
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}

func generate(kind string) ([]byte, error) {
	switch kind {
	case "config":
		return configs.Schema()
	case "profile":
		return yaml.NewSchemaGenerator(&profile.Record{}).Generate()
	}

	return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
}
