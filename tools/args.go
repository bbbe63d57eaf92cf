package tools

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/bububa/docassist/schema"
)

// DecodeArgs decodes a JSON argument object into I and validates it
func DecodeArgs[I any](args map[string]any) (*I, error) {
	in := new(I)
	if len(args) > 0 {
		bs, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(bs, in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if v, ok := any(in).(schema.Schema); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	return in, nil
}

// Parameters reflects the JSON schema of I from its json and jsonschema tags
func Parameters[I any]() map[string]any {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(new(I))
	s.Version = ""
	s.ID = ""
	bs, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	ret := make(map[string]any)
	if err := json.Unmarshal(bs, &ret); err != nil {
		return nil
	}
	return ret
}
