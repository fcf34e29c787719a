package miner

// Shutdown is the external collaborator from spec §6: "isShutdownRequested()".
type Shutdown interface {
	IsShutdownRequested() bool
}
