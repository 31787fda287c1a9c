package realtime

// State is the connection monitor's position in the reconnect state
// machine.
type State int

const (
	// StateDisconnected is the initial state, before any subscription.
	StateDisconnected State = iota
	// StateConnecting means a connection attempt is in flight.
	StateConnecting
	// StateConnected means the live channel is up.
	StateConnected
	// StateReconnecting means the channel dropped and a backoff timer
	// is pending.
	StateReconnecting
	// StateGaveUp means the reconnect attempt budget is exhausted.
	// Only ForceReconnect leaves this state.
	StateGaveUp
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateGaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}
