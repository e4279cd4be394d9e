package gateway

import "encoding/json"

// Gateway operation codes. Dispatch frames carry the state events the
// client merges; the rest are connection plumbing.
const (
	OpDispatch       = 0
	OpIdentify       = 2
	OpPresenceUpdate = 3
	OpHeartbeat      = 1
	OpHeartbeatAck   = 11
	OpHello          = 10
)

// Envelope is a single gateway frame.
type Envelope struct {
	Op   int             `json:"op"`
	Seq  int64           `json:"s,omitempty"`
	Type string          `json:"t,omitempty"`
	Data json.RawMessage `json:"d,omitempty"`
}

// Delivery is a dispatch frame annotated with the shard that received it.
// The client's single run loop consumes deliveries from every shard in
// arrival order, so per-shard ordering is preserved end to end.
type Delivery struct {
	ShardID  int
	Envelope Envelope
}

// identifyPayload is the OpIdentify body.
type identifyPayload struct {
	Token string `json:"token"`
	Shard [2]int `json:"shard"`
}

// helloPayload is the OpHello body.
type helloPayload struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"` // milliseconds
}
