package report

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-ismingest/internal/pipeline"
)

func RenderYAML(result pipeline.BatchResult) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildView(result)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
