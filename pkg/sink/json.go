package sink

import (
	"encoding/json"

	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// Document is the JSON export of a chart.
type Document struct {
	Scene  canvas.Scene `json:"scene"`
	Layout rank.Layout  `json:"layout"`
}

// RenderJSON exports the scene together with the layout it was drawn from.
func RenderJSON(scene canvas.Scene, layout rank.Layout) ([]byte, error) {
	data, err := json.MarshalIndent(Document{Scene: scene, Layout: layout}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return append(data, '\n'), nil
}
