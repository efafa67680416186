package queue

import (
	"encoding/json"
	"fmt"

	"fincheck/internal/finance"
)

// SummaryMessage is one queued weekly summary email.
type SummaryMessage struct {
	Report finance.WeeklyReport `json:"report"`
}

// ToJSON encodes the message body.
func (m *SummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryMessageFromJSON decodes a message body. Messages without a
// recipient are rejected.
func SummaryMessageFromJSON(data []byte) (*SummaryMessage, error) {
	var msg SummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Report.Email == "" {
		return nil, fmt.Errorf("summary message for user %q has no recipient", msg.Report.UserID)
	}
	return &msg, nil
}
