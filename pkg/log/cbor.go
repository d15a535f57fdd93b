package log

import (
	"github.com/fxamacker/cbor/v2"
)

// A .dlog file is a CBOR sequence of events. Timestamps are RFC 3339 text
// so they keep nanoseconds and stay readable in generic CBOR tools.
var (
	eventEncMode = mustMode(cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode())
	eventDecMode = mustMode(cbor.DecOptions{}.DecMode())
)

func mustMode[M any](mode M, err error) M {
	if err != nil {
		panic("log: invalid event CBOR options: " + err.Error())
	}
	return mode
}
