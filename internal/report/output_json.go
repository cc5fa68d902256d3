package report

import (
	"encoding/json"

	"github.com/autobrr/go-ismingest/internal/pipeline"
)

func RenderJSON(result pipeline.BatchResult) (string, error) {
	b, err := json.MarshalIndent(buildView(result), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
