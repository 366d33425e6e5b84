package rebalancer

import (
	"github.com/pkg/errors"
)

var (
	// ErrPluginResolution means the identifier does not map to a known rebalancer
	// or its construction failed.
	ErrPluginResolution = errors.New("rebalancer resolution failed")

	// ErrPluginInit means Init of the rebalancer failed.
	ErrPluginInit = errors.New("rebalancer init failed")

	// ErrPluginCompute means ComputeNewIdealState failed, panicked or timed out.
	ErrPluginCompute = errors.New("rebalancer compute failed")

	// ErrPluginContractViolation means the rebalancer returned a result that breaks
	// the contract, e.g. an ideal state of another resource.
	ErrPluginContractViolation = errors.New("rebalancer contract violation")
)

// Reason classifies a rebalancer error for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPluginContractViolation):
		return "contract_violation"
	case errors.Is(err, ErrPluginResolution):
		return "resolution"
	case errors.Is(err, ErrPluginInit):
		return "init"
	case errors.Is(err, ErrPluginCompute):
		return "compute"
	default:
		return "unknown"
	}
}
