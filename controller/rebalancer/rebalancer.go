// Package rebalancer hosts user defined placement algorithms.
//
// A resource opts into a user defined rebalancer by setting REBALANCER_CLASS_NAME
// in its ideal state. The identifier is either the short name of a built-in
// rebalancer or an identifier registered at process startup:
//
//	func init() {
//		rebalancer.Register("com.example.EvenSplit", func() (rebalancer.Rebalancer, error) {
//			return &evenSplit{}, nil
//		})
//	}
//
// There is no dynamic loading: an unregistered identifier never resolves.
package rebalancer

import (
	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/model"
)

// Rebalancer computes the ideal state of a resource.
//
// Init runs before the first ComputeNewIdealState on an instance. The host may
// call ComputeNewIdealState for different resources from different goroutines,
// each on its own instance, so neither method may assume a particular goroutine.
type Rebalancer interface {

	// Init performs one-time setup with the controller handle, which might be nil
	// when the controller runs without a storage connection.
	Init(manager helix.HelixManager) error

	// ComputeNewIdealState returns a complete replacement ideal state for the resource.
	// It must be deterministic for identical inputs and must not mutate
	// currentStateOutput or clusterData. currentIdealState is a private copy.
	ComputeNewIdealState(resourceName string, currentIdealState *model.IdealState,
		currentStateOutput *cache.CurrentStateOutput, clusterData *cache.ClusterDataCache) (*model.IdealState, error)
}
