package conf

import (
	"strings"

	"github.com/spf13/viper"
)

// LoadOverrides layers viper-sourced runtime overrides (config file,
// environment) on top of an already-parsed AppConfig, the way the
// teacher's model/mining/strategy.go reads viper.GetString("strategy")
// at init time rather than only from CLI flags.
func LoadOverrides(cfg *AppConfig, v *viper.Viper) {
	v.SetEnvPrefix("veil")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if v.IsSet("strategy") {
		cfg.Strategy = v.GetString("strategy")
	}
	if v.IsSet("blockmaxweight") {
		cfg.BlockMaxWeight = v.GetUint64("blockmaxweight")
	}
	if v.IsSet("blockmintxfee") {
		cfg.BlockMinTxFee = v.GetInt64("blockmintxfee")
	}
	if v.IsSet("blockversion") {
		cfg.BlockVersion = v.GetInt32("blockversion")
	}
	if v.IsSet("printpriority") {
		cfg.PrintPriority = v.GetBool("printpriority")
	}
	if v.IsSet("genoverride") {
		cfg.GenOverride = v.GetBool("genoverride")
	}
}
