// Package tracking receives live tracking frames from the mobile
// motion-capture client.
//
// The client streams JSON datagrams over UDP, each a full frame of
// named tracking values (blendshapes, head rotation, and so on):
//
//	{"timestamp": 1724900000123, "values": {"eyeBlinkLeft": 0.5, ...}}
//
// Frames never queue: the receiver keeps only the newest frame, which
// the rule-evaluation step reads as identifier bindings. A frame's age
// is exposed so consumers can treat a silent capture client as stale
// input rather than as zeros.
package tracking
