//go:build linux || darwin

package main

import (
	"fmt"

	"github.com/KiraleTech/KiTools/sniffer"
)

// defaultLiveSink builds the sink used when --live is given without
// --file: a named FIFO a running Wireshark "extcap" can tail directly.
func defaultLiveSink() (sniffer.Sink, string) {
	path := sniffer.NewFifoSinkName()
	return sniffer.NewFifoSink(path, false), fmt.Sprintf("FIFO %s", path)
}
