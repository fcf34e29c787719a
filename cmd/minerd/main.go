// Command minerd wires configuration, logging, and the PoW/PoS miner
// drivers together. It carries no chain/mempool/wallet implementation of
// its own — those collaborators are an explicit Non-goal — so it is only
// useful embedded into a host process that supplies real ones.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zzhertzmon/veil/conf"
	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/miner"
)

// shutdownFlag adapts an os signal into the miner.Shutdown collaborator.
type shutdownFlag struct {
	requested chan struct{}
}

func (s *shutdownFlag) IsShutdownRequested() bool {
	select {
	case <-s.requested:
		return true
	default:
		return false
	}
}

func minerdMain() error {
	cfg, err := conf.Parse(os.Args[1:])
	if err != nil {
		return err
	}
	if err := log.InitLogger(cfg.LogDir, "info"); err != nil {
		return err
	}

	log.Info("minerd: starting with strategy=%s blockMaxWeight=%d", cfg.Strategy, cfg.BlockMaxWeight)

	sd := &shutdownFlag{requested: make(chan struct{})}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("minerd: shutdown requested")
		close(sd.requested)
	}()

	// A real deployment supplies Chain/Mempool/UTXOView/Consensus/Wallet/
	// Accumulator implementations here, along with
	// mining.Assembler{Strategy: mining.ParseStrategy(cfg.Strategy), ...};
	// this entry point only demonstrates the wiring shape (collaborator
	// implementations are a Non-goal).
	pow := miner.NewThreadGroup()
	pos := miner.NewThreadGroup()
	_ = pow
	_ = pos

	<-sd.requested
	pow.StopGeneration()
	pos.StopGeneration()
	log.Info("minerd: stopped")
	return nil
}

func main() {
	if err := minerdMain(); err != nil {
		fmt.Fprintf(os.Stderr, "minerd: %v\n", err)
		os.Exit(1)
	}
}
