//go:build windows

package main

import (
	"fmt"

	"github.com/KiraleTech/KiTools/sniffer"
)

// defaultLiveSink builds the sink used when --live is given without
// --file: a named pipe a running Wireshark "extcap" can connect to.
func defaultLiveSink() (sniffer.Sink, string) {
	path := sniffer.NewPipeSinkName()
	return sniffer.NewPipeSink(path, false), fmt.Sprintf("pipe %s", path)
}
