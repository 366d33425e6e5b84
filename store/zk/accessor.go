package zk

import (
	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
)

var _ helix.HelixDataAccessor = &dataAccessor{}

// dataAccessor reads and writes the cluster records as JSON znodes.
type dataAccessor struct {
	conn *connection
	kb   keyBuilder
}

func newDataAccessor(conn *connection, kb keyBuilder) *dataAccessor {
	return &dataAccessor{conn: conn, kb: kb}
}

// records reads all children of parent. Children deleted while reading are skipped.
func (a *dataAccessor) records(parent string, child func(string) string) (map[string]*model.Record, error) {
	children, err := a.conn.Children(parent)
	if err == zk.ErrNoNode {
		return map[string]*model.Record{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, parent)
	}

	records := make(map[string]*model.Record, len(children))
	for _, c := range children {
		record, err := a.conn.GetRecord(child(c))
		if err == zk.ErrNoNode {
			continue
		} else if err != nil {
			return nil, errors.Wrap(err, child(c))
		}
		records[c] = record
	}
	return records, nil
}

func (a *dataAccessor) IdealStates() (map[string]*model.IdealState, error) {
	records, err := a.records(a.kb.idealStates(), a.kb.idealStateForResource)
	if err != nil {
		return nil, err
	}

	m := make(map[string]*model.IdealState, len(records))
	for resource, r := range records {
		m[resource] = model.NewIdealStateFromRecord(r)
	}
	return m, nil
}

func (a *dataAccessor) LiveInstances() (map[string]*model.LiveInstance, error) {
	records, err := a.records(a.kb.liveInstances(), a.kb.liveInstance)
	if err != nil {
		return nil, err
	}

	m := make(map[string]*model.LiveInstance, len(records))
	for instance, r := range records {
		m[instance] = model.NewLiveInstanceFromRecord(r)
	}
	return m, nil
}

func (a *dataAccessor) CurrentStates(instance, sessionID string) (map[string]*model.CurrentState, error) {
	if instance == "" || sessionID == "" {
		return nil, helix.ErrInvalidArgument
	}

	records, err := a.records(a.kb.currentStatesForSession(instance, sessionID), func(resource string) string {
		return a.kb.currentStateForResource(instance, sessionID, resource)
	})
	if err != nil {
		return nil, err
	}

	m := make(map[string]*model.CurrentState, len(records))
	for resource, r := range records {
		m[resource] = model.NewCurrentStateFromRecord(r)
	}
	return m, nil
}

func (a *dataAccessor) SetIdealState(resource string, is *model.IdealState) error {
	if resource == "" || is == nil {
		return helix.ErrInvalidArgument
	}

	return errors.Wrap(a.conn.SetRecord(a.kb.idealStateForResource(resource), is.Record), resource)
}
