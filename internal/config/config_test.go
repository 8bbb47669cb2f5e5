package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dschmit00/sports-calendar/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "docs/all.ics", cfg.Output)
	assert.Equal(t, "1", cfg.APIKey)
	assert.Equal(t, "github.io", cfg.UIDDomain)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := writeFile(t, "sportscal.yaml", `
uid_domain: example.org
timezone: Europe/London
fetch_timeout: 5s
watch:
  listen: ":8080"
  basic_auth:
    username: admin
    password: ""
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "example.org", cfg.UIDDomain)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8080", cfg.Watch.Listen)
	assert.Equal(t, DefaultWatchCron, cfg.Watch.Cron)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Nil(t, cfg.Watch.BasicAuth, "incomplete credentials disable auth")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "teams: [unclosed")
	_, err := Load(path)
	require.Error(t, err)

	le, ok := AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, path, le.Path)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "sportscal.yaml")

	cfg := DefaultConfig()
	cfg.CalendarName = "Fixtures"
	cfg.Watch.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveRejectsEmptyInput(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("THE_SPORTSDB_KEY", "premium")
	t.Setenv("ICS_DOMAIN", "fixtures.example")
	t.Setenv("DEFAULT_TZ", "America/New_York")
	t.Setenv("SPORTSCAL_OUTPUT", "out/cal.ics")
	t.Setenv("SPORTSCAL_FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("SPORTSCAL_TEAMS", "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "premium", cfg.APIKey)
	assert.Equal(t, "fixtures.example", cfg.UIDDomain)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "out/cal.ics", cfg.Output)
	assert.Equal(t, DefaultTeamsPath, cfg.Teams)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
}

func TestValidateTimezone(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadTeamsJSON(t *testing.T) {
	path := writeFile(t, "teams.json", `[
		{"team_id": "133604", "name": "Arsenal", "sport_emoji": "⚽"},
		{"team_id": 134880, "duration_minutes": 180}
	]`)

	teams, err := LoadTeams(path)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	assert.Equal(t, model.TeamID("133604"), teams[0].ID)
	assert.Equal(t, "⚽", teams[0].SportEmoji)
	assert.Equal(t, 120*time.Minute, teams[0].Duration())
	assert.Equal(t, model.TeamID("134880"), teams[1].ID)
	assert.Equal(t, 180*time.Minute, teams[1].Duration())
}

func TestLoadTeamsYAML(t *testing.T) {
	path := writeFile(t, "teams.yml", `
- team_id: 133604
  name: Arsenal
  sport_emoji: "⚽"
- team_id: "134880"
  duration_minutes: 0
`)

	teams, err := LoadTeams(path)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, model.TeamID("133604"), teams[0].ID)
	assert.Equal(t, time.Duration(0), teams[1].Duration())
}

func TestLoadTeamsEmptyList(t *testing.T) {
	teams, err := LoadTeams(writeFile(t, "teams.json", `[]`))
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestLoadTeamsErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing file", "", ""},
		{"empty json", "teams.json", "  "},
		{"not an array", "teams.json", `{"team_id": "1"}`},
		{"missing team_id", "teams.json", `[{"name": "Nobody"}]`},
		{"null team_id", "teams.json", `[{"team_id": null}]`},
		{"negative duration", "teams.json", `[{"team_id": "1", "duration_minutes": -5}]`},
		{"yaml mapping id", "teams.yaml", "- team_id: {a: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.json")
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.content)
			}

			_, err := LoadTeams(path)
			require.Error(t, err)
			_, ok := AsLoadError(err)
			assert.True(t, ok)
		})
	}
}
