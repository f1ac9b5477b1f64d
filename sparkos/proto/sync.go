package proto

// Link-level replies the watch sends back for each dictionary datagram.
const (
	SyncAck  byte = 0x06
	SyncNack byte = 0x15
)

// SyncInitPayload encodes a MsgSyncInit payload: the dictionary of initial values
// the subscriber has already applied. The subscriber's send capability travels in
// msg.Cap.
func SyncInitPayload(initial []Tuple) ([]byte, error) {
	return EncodeDict(initial)
}
