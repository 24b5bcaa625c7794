package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Reasons carried by recalculation messages.
const (
	ReasonRecordChanged = "record-changed"
	ReasonScheduled     = "scheduled"
	ReasonStartup       = "startup"
)

var errMissingOwner = errors.New("recalc message without owner")

// PlanRecalcMessage asks the worker to recompute one owner's payoff plan.
// It carries only the owner; the worker loads the records itself.
type PlanRecalcMessage struct {
	Owner     string    `json:"owner"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPlanRecalcMessage(owner, reason string) *PlanRecalcMessage {
	return &PlanRecalcMessage{
		Owner:     owner,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PlanRecalcMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanRecalcMessageFromJSON decodes a message and rejects one without owner.
func PlanRecalcMessageFromJSON(data []byte) (*PlanRecalcMessage, error) {
	var msg PlanRecalcMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Owner == "" {
		return nil, errMissingOwner
	}
	return &msg, nil
}
