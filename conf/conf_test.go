package conf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]string{})
	assert.NoError(t, err)
	assert.Equal(t, uint64(3996000), cfg.BlockMaxWeight)
	assert.Equal(t, "ancestorfeerate", cfg.Strategy)
	assert.False(t, cfg.GenOverride)
}

func TestParseReadsFlags(t *testing.T) {
	cfg, err := Parse([]string{"--genoverride", "--strategy=ancestorfee", "--blockmaxweight=500000"})
	assert.NoError(t, err)
	assert.True(t, cfg.GenOverride)
	assert.Equal(t, "ancestorfee", cfg.Strategy)
	assert.Equal(t, uint64(500000), cfg.BlockMaxWeight)
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--not-a-real-flag"})
	assert.Error(t, err)
}

func TestLoadOverridesAppliesEnv(t *testing.T) {
	cfg := &AppConfig{Strategy: "ancestorfeerate", BlockMaxWeight: 1000}
	v := viper.New()
	t.Setenv("VEIL_STRATEGY", "ancestorfee")
	t.Setenv("VEIL_BLOCKMAXWEIGHT", "777")

	LoadOverrides(cfg, v)
	assert.Equal(t, "ancestorfee", cfg.Strategy)
	assert.Equal(t, uint64(777), cfg.BlockMaxWeight)
}

func TestLoadOverridesLeavesUnsetFieldsAlone(t *testing.T) {
	cfg := &AppConfig{Strategy: "ancestorfeerate"}
	v := viper.New()
	LoadOverrides(cfg, v)
	assert.Equal(t, "ancestorfeerate", cfg.Strategy)
}
