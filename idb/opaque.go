package idb

// OpaqueSection records the presence and raw payload of a section this
// module does not interpret: ID1, NAM, SEG, and ID2 (Component G,
// spec.md §4.4). Its bytes participate in round-trips only as an
// identical pass-through.
type OpaqueSection struct {
	Offset  uint64
	Length  uint64
	Payload []byte
}
