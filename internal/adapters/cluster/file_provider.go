package cluster

import (
	"cluster-route-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileProvider serves a fixed partition from a JSON file of
// clusters, each a list of [lon, lat] pairs. The file is re-read on every call.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) ListClusters(ctx context.Context) ([][]domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bytes, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read clusters %q: %w", p.Path, err)
	}

	var raw [][][]float64
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse clusters %q: %w", p.Path, err)
	}

	out := make([][]domain.Coordinates, 0, len(raw))
	for i, group := range raw {
		points := make([]domain.Coordinates, 0, len(group))
		for j, pair := range group {
			if len(pair) != 2 {
				return nil, fmt.Errorf("parse clusters %q: cluster %d point %d: want [lon, lat]", p.Path, i, j)
			}
			points = append(points, domain.Coordinates{Lon: pair[0], Lat: pair[1]})
		}
		out = append(out, points)
	}

	return out, nil
}
