package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
interview_config:
  transcript_ceiling: 20
  max_follow_ups: 3
  min_follow_ups_for_transition: 2
progress_thresholds:
  technical_only:
    intro: 3
    exploration: 10
    deep_dive: 16
  behavioral_only:
    intro: 3
    exploration: 8
    deep_dive: 14
  technical_behavioral:
    intro: 4
    exploration: 12
    deep_dive: 18
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.GetTranscriptCeiling())
	assert.Equal(t, 3, cfg.GetMaxFollowUps())
	assert.Equal(t, 2, cfg.GetMinFollowUpsForTransition())

	thresholds := cfg.GetProgressThresholds("behavioral_only")
	assert.Equal(t, 8, thresholds.Exploration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "interview_config: [broken"))
	assert.Error(t, err)
}

func TestValidateRejectsZeroCeiling(t *testing.T) {
	_, err := Load(writeConfig(t, `
interview_config:
  transcript_ceiling: 0
  max_follow_ups: 3
  min_follow_ups_for_transition: 2
progress_thresholds:
  technical_behavioral:
    intro: 4
    exploration: 12
    deep_dive: 18
`))
	assert.ErrorContains(t, err, "transcript_ceiling")
}

func TestValidateRejectsMinAboveMax(t *testing.T) {
	_, err := Load(writeConfig(t, `
interview_config:
  transcript_ceiling: 20
  max_follow_ups: 2
  min_follow_ups_for_transition: 3
progress_thresholds:
  technical_behavioral:
    intro: 4
    exploration: 12
    deep_dive: 18
`))
	assert.ErrorContains(t, err, "min_follow_ups_for_transition")
}

func TestValidateRequiresDefaultThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, `
interview_config:
  transcript_ceiling: 20
  max_follow_ups: 3
  min_follow_ups_for_transition: 2
progress_thresholds:
  technical_only:
    intro: 3
    exploration: 10
    deep_dive: 16
`))
	assert.ErrorContains(t, err, "technical_behavioral")
}

func TestValidateRejectsNonIncreasingThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, `
interview_config:
  transcript_ceiling: 20
  max_follow_ups: 3
  min_follow_ups_for_transition: 2
progress_thresholds:
  technical_behavioral:
    intro: 12
    exploration: 4
    deep_dive: 18
`))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, validateConfig(cfg))

	// Неизвестный тип получает пороги комбинированного интервью
	thresholds := cfg.GetProgressThresholds("unknown")
	assert.Equal(t, 4, thresholds.Intro)
}
