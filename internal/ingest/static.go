package ingest

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/projects.json
var defaultDataset []byte

// StaticSource serves the dataset compiled into the binary
type StaticSource struct {
	data []byte
}

// NewStaticSource returns the built-in dataset source
func NewStaticSource() *StaticSource {
	return &StaticSource{data: defaultDataset}
}

// Name implements Source
func (s *StaticSource) Name() string {
	return "static"
}

// Load implements Source
func (s *StaticSource) Load(_ context.Context) ([]any, error) {
	var doc any
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, permanent(fmt.Errorf("decode built-in dataset: %w", err))
	}
	return extractRecords(doc)
}
