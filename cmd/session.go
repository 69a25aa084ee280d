/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/allbin/go-scpi"
	"github.com/rs/zerolog"
)

// portOpener is replaced in tests with a simulated instrument
var portOpener scpi.Opener = scpi.OpenPort

// openSession opens cfg.Port(). On failure the diagnostic is printed to
// errOut and the error returned.
func openSession(cfg scpi.Config, log zerolog.Logger, errOut io.Writer) (*scpi.Session, error) {
	s := scpi.NewSession(cfg, scpi.WithOpener(portOpener), scpi.WithLogger(log))
	if err := s.Open(); err != nil {
		reason := err
		var connErr *scpi.ConnectionError
		if errors.As(err, &connErr) {
			reason = connErr.Err
		}
		fmt.Fprintf(errOut, "Failed to open %s: %v\n", cfg.Port(), reason)

		switch {
		case errors.Is(err, scpi.ErrPermissionDenied) && runtime.GOOS == "linux":
			fmt.Fprintln(errOut, "Hint: add your user to the dialout group or check the device permissions")
		case errors.Is(err, scpi.ErrDeviceNotFound):
			fmt.Fprintln(errOut, "Hint: run 'scpi list' to see the available ports")
		case errors.Is(err, scpi.ErrDeviceInUse):
			fmt.Fprintln(errOut, "Hint: another program has the port open")
		}
		return nil, err
	}
	return s, nil
}
