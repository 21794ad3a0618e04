package scene

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes shapes by their "type" field.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var raw struct {
		BackgroundColor [3]float64        `json:"backgroundcolor"`
		LightSources    []Light           `json:"lightsources"`
		Shapes          []json.RawMessage `json:"shapes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.BackgroundColor = raw.BackgroundColor
	s.LightSources = raw.LightSources
	s.Shapes = make([]Shape, 0, len(raw.Shapes))

	for i, msg := range raw.Shapes {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}

		var shape Shape
		switch head.Type {
		case TypeTriangle:
			shape = &Triangle{}
		case TypeSphere:
			shape = &Sphere{}
		default:
			return fmt.Errorf("shape %d: unknown type %q", i, head.Type)
		}
		if err := json.Unmarshal(msg, shape); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, shape)
	}
	return nil
}
