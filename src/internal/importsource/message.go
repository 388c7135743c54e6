package importsource

import "encoding/json"

// Query statuses understood by GetImportMessage. StatusDuplicated is derived
// locally; the lookup service never sends it.
const (
	StatusSuccess    = "success"
	StatusNotFound   = "notfound"
	StatusMalformed  = "malformed"
	StatusDuplicated = "duplicated"
)

// SourceDatabase is the body "source" value of records already held locally.
const SourceDatabase = "database"

// State is the severity of a status message, as used by flash messages.
type State string

const (
	StateSuccess State = "success"
	StateWarning State = "warning"
	StateInfo    State = "info"
	StateDanger  State = "danger"
)

// StatusMessage is a severity-tagged message for the user.
type StatusMessage struct {
	State   State  `json:"state" yaml:"state"`
	Message string `json:"message" yaml:"message"`
}

// Outcome is the result of one RunGetData call. Mapping is set only on success.
// Encoded, a successful outcome always carries a mapping key, possibly {},
// and any other outcome never does.
type Outcome struct {
	Mapping       Mapping       `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	StatusMessage StatusMessage `json:"statusMessage" yaml:"statusMessage"`
}

type mappedOutcome struct {
	Mapping       Mapping       `json:"mapping" yaml:"mapping"`
	StatusMessage StatusMessage `json:"statusMessage" yaml:"statusMessage"`
}

type messageOutcome struct {
	StatusMessage StatusMessage `json:"statusMessage" yaml:"statusMessage"`
}

func (o Outcome) encoded() any {
	if o.StatusMessage.State != StateSuccess {
		return messageOutcome{o.StatusMessage}
	}
	m := o.Mapping
	if m == nil {
		m = Mapping{}
	}
	return mappedOutcome{m, o.StatusMessage}
}

// MarshalJSON implements json.Marshaler.
func (o Outcome) MarshalJSON() ([]byte, error) { return json.Marshal(o.encoded()) }

// MarshalYAML implements yaml.Marshaler.
func (o Outcome) MarshalYAML() (any, error) { return o.encoded(), nil }

// GetImportMessage renders the message for a query status and identifier.
func (s *ImportSource) GetImportMessage(status, identifier string) StatusMessage {
	switch status {
	case StatusNotFound:
		return StatusMessage{StateWarning, "The " + s.name + " " + identifier + " was not found."}
	case StatusMalformed:
		return StatusMessage{StateWarning, "The " + s.name + " " + identifier + " is malformed."}
	case StatusSuccess:
		return StatusMessage{StateSuccess, "The data was successfully imported from " + s.name + "."}
	case StatusDuplicated:
		return StatusMessage{StateInfo, "This " + s.name + " already exists in Inspire database."}
	}
	return StatusMessage{StateWarning, "Unknown import result."}
}
