package httpapi

import "log"

// Verbose gates this package's diagnostic logging (best-effort download
// saves, discarded errors), mirroring ptp.Verbose.
var Verbose bool

func logf(format string, args ...interface{}) {
	if Verbose {
		log.Printf(format, args...)
	}
}
