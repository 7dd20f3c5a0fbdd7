package turn

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Input is the caller-defined game state for a turn. The transport passes it
// through untouched; engines decide what schema they expect.
type Input map[string]any

func (in Input) Has(key string) bool {
	_, ok := in[key]
	return ok
}

// Bind decodes the input into dst using its json tags. Numbers are expected
// as json.Number; a fractional value bound to an integer field is an error.
func (in Input) Bind(dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
	})
	if err != nil {
		return fmt.Errorf("bind turn input: %w", err)
	}
	if err := decoder.Decode(map[string]any(in)); err != nil {
		return fmt.Errorf("bind turn input: %w", err)
	}
	return nil
}
