package sink

import (
	"encoding/json"

	"github.com/matzehuels/infinityflow/pkg/render"
)

// RenderJSON exports the scene as indented JSON.
func RenderJSON(s render.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
