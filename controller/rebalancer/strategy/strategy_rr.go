package strategy

import (
	"github.com/funkygao/helix-controller/model"
)

type roundRobinStrategy struct {
	base
}

func (s *roundRobinStrategy) PartitionAssignment(liveInstances []string, _ map[string]map[string]string) *model.Record {
	nodes := sorted(liveInstances)
	s.load = make(map[string]int, len(nodes))

	rec := model.NewRecord(s.resource)
	for i, p := range s.partitions {
		rec.SetListField(p, s.fill(make([]string, 0, s.replicas), i, nodes))
	}
	return rec
}
