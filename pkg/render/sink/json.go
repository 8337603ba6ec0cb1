package sink

import (
	"encoding/json"

	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	faces  bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONLinesOnly drops the module faces, which dominate the output size.
func WithJSONLinesOnly() JSONOption { return func(r *jsonRenderer) { r.faces = false } }

// RenderJSON exports the projected frame.
func RenderJSON(f wireframe.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{faces: true}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.faces {
		f.Faces = nil
	}
	if r.indent {
		return json.MarshalIndent(f, "", "  ")
	}
	return json.Marshal(f)
}
