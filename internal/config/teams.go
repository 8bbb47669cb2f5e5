package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// LoadTeams reads the followed-team list. Files ending in .yaml or .yml are
// decoded as YAML, anything else as a JSON array.
//
// Every entry must carry a team_id and a non-negative duration_minutes.
// An empty list is valid and yields an empty calendar.
func LoadTeams(path string) ([]model.Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	teams, err := decodeTeams(path, data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	for i, t := range teams {
		if t.ID == "" {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("team #%d: missing team_id", i+1)}
		}
		if t.DurationMinutes != nil && *t.DurationMinutes < 0 {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("team %s: negative duration_minutes %d", t.ID, *t.DurationMinutes)}
		}
	}

	if teams == nil {
		teams = []model.Team{}
	}
	return teams, nil
}

func decodeTeams(path string, data []byte) ([]model.Team, error) {
	var teams []model.Team

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &teams); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("empty team list file")
		}
		if err := json.Unmarshal(data, &teams); err != nil {
			return nil, err
		}
	}
	return teams, nil
}
