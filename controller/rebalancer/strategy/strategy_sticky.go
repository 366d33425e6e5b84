package strategy

import (
	"sort"

	"github.com/funkygao/helix-controller/model"
)

type stickyStrategy struct {
	base
}

func (s *stickyStrategy) PartitionAssignment(liveInstances []string, currentMapping map[string]map[string]string) *model.Record {
	nodes := sorted(liveInstances)
	s.load = make(map[string]int, len(nodes))

	rec := model.NewRecord(s.resource)
	for i, p := range s.partitions {
		pref := make([]string, 0, s.replicas)
		for _, n := range s.holders(currentMapping[p], nodes) {
			if len(pref) >= s.replicas {
				break
			}
			if !s.full(n) {
				pref = append(pref, n)
				s.load[n]++
			}
		}

		rec.SetListField(p, s.fill(pref, i, nodes))
	}
	return rec
}

// holders returns the live instances currently serving a replica, higher
// priority states first.
func (s *stickyStrategy) holders(observed map[string]string, nodes []string) []string {
	holders := make([]string, 0, len(observed))
	for _, n := range nodes {
		switch observed[n] {
		case "", model.HelixDefinedStateDropped, model.HelixDefinedStateError:
		default:
			holders = append(holders, n)
		}
	}

	sort.SliceStable(holders, func(i, j int) bool {
		return s.rank(observed[holders[i]]) < s.rank(observed[holders[j]])
	})
	return holders
}

func (s *stickyStrategy) rank(state string) int {
	for i, st := range s.states {
		if st == state {
			return i
		}
	}
	return len(s.states)
}
