// Package conf declares the CLI/config surface recognized by the core
// (spec §6 "Configuration surface"). It mirrors the teacher's AppConfig
// struct-tag style, trimmed to the options the block assembler, selector,
// and miner driver actually read; P2P/RPC options are out of scope.
package conf

import "github.com/jessevdk/go-flags"

// AppConfig is the flag-parsed configuration surface.
type AppConfig struct {
	DataDir string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir  string `long:"logdir" description:"Directory to log output"`

	// BlockMaxWeight caps the assembled block's weight (spec §6). Clamped
	// to [4000, MAX_BLOCK_WEIGHT/4] at assembler construction regardless
	// of the value given here.
	BlockMaxWeight uint64 `long:"blockmaxweight" description:"Maximum block weight to assemble" default:"3996000"`

	// BlockMinTxFee is an optional floor on package feerate (satoshis/kB).
	// Left at its zero-value default, which leaves the gate disabled per
	// spec §9 open question (b).
	BlockMinTxFee int64 `long:"blockmintxfee" description:"Minimum feerate for package inclusion, in satoshis/kB"`

	// BlockVersion overrides the header version field; regtest-only.
	BlockVersion int32 `long:"blockversion" description:"Override the block version (regtest only)"`

	// GenOverride bypasses initial-block-download and tip-age gating.
	GenOverride bool `long:"genoverride" description:"Bypass IBD and tip-age gating for block generation"`

	// PrintPriority enables diagnostic per-tx feerate logging during
	// package selection.
	PrintPriority bool `long:"printpriority" description:"Log per-tx feerate during package selection"`

	// Strategy selects the ancestor ordering key used by the selector:
	// "ancestorfee" or "ancestorfeerate" (default).
	Strategy string `long:"strategy" description:"Package ordering strategy" default:"ancestorfeerate"`
}

// Parse parses args (normally os.Args[1:]) into a fresh AppConfig.
func Parse(args []string) (*AppConfig, error) {
	cfg := &AppConfig{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
