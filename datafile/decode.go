package datafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// unmarshalFunc decodes data into the value pointed to by v.
type unmarshalFunc func(data []byte, v any) error

var unmarshalers = map[Kind]unmarshalFunc{
	JSON: json.Unmarshal,
	YAML: unmarshalYAML,
	TOML: toml.Unmarshal,
	RON:  unmarshalRON,
}

// unmarshalYAML decodes a single YAML document into v. Further non-empty
// documents are an error, so no records are dropped silently.
func unmarshalYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}

	for {
		var extra yaml.Node

		err := dec.Decode(&extra)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if extra.Kind == yaml.DocumentNode && len(extra.Content) == 0 {
			continue
		}

		return fmt.Errorf("yaml: line %d: multiple documents are not supported", extra.Line)
	}
}

// Decode decodes a structured document holding records of type T. The
// document is either a list of records or a map from arbitrary keys to
// records; the list shape is tried first. Map keys are discarded and the
// values are returned in unspecified order. Blank input yields no records.
func Decode[T any](kind Kind, data []byte) ([]T, error) {
	unmarshal, ok := unmarshalers[kind]
	if !ok {
		return nil, fmt.Errorf("kind %s is not a structured format", kind)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var list []T

	listErr := unmarshal(data, &list)
	if listErr == nil {
		return list, nil
	}

	var set map[string]T

	setErr := unmarshal(data, &set)
	if setErr == nil {
		return slices.Collect(maps.Values(set)), nil
	}

	return nil, errors.Join(
		fmt.Errorf("as list of records: %w", listErr),
		fmt.Errorf("as map of records: %w", setErr),
	)
}
