package pipeline

import (
	"sync"
)

type PipelineRegistry struct {
	sync.RWMutex
	registryMap map[string][]*Pipeline
}

func NewPipelineRegistry() *PipelineRegistry {
	return &PipelineRegistry{
		registryMap: map[string][]*Pipeline{},
	}
}

func (r *PipelineRegistry) Register(eventName string, ps ...*Pipeline) {
	r.Lock()
	defer r.Unlock()

	r.registryMap[eventName] = append(r.registryMap[eventName], ps...)
}

func (r *PipelineRegistry) PipelineForEvent(eventName string) []*Pipeline {
	r.RLock()
	defer r.RUnlock()
	return r.registryMap[eventName]
}

// Pipelines returns each registered pipeline once.
func (r *PipelineRegistry) Pipelines() []*Pipeline {
	r.RLock()
	defer r.RUnlock()

	seen := make(map[*Pipeline]struct{})
	var all []*Pipeline
	for _, ps := range r.registryMap {
		for _, p := range ps {
			if _, present := seen[p]; !present {
				seen[p] = struct{}{}
				all = append(all, p)
			}
		}
	}
	return all
}
