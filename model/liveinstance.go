package model

import (
	"fmt"
	"os"
)

type LiveInstance struct {
	*Record
}

// NewLiveInstanceRecord creates a new instance of Record for representing a live instance.
func NewLiveInstanceRecord(participantID string, sessionID string) *Record {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	node := NewRecord(participantID)
	node.SetSimpleField("SESSION_ID", sessionID)
	node.SetSimpleField("LIVE_INSTANCE", fmt.Sprintf("%d@%s", os.Getpid(), hostname))

	return node
}

func NewLiveInstance(participantID string, sessionID string) *LiveInstance {
	return &LiveInstance{Record: NewLiveInstanceRecord(participantID, sessionID)}
}

func NewLiveInstanceFromRecord(record *Record) *LiveInstance {
	return &LiveInstance{Record: record}
}

func (li *LiveInstance) SetSessionID(sessionID string) {
	li.SetStringField("SESSION_ID", sessionID)
}

func (li *LiveInstance) SessionID() string {
	return li.GetStringField("SESSION_ID", "")
}

func (li *LiveInstance) Node() string {
	return li.ID
}
