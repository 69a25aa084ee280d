// Package scpi talks to SCPI instruments over a serial line.
//
// A Session owns one serial port and exchanges newline terminated ASCII
// lines with the instrument. Commands are written with the configured
// terminator appended; replies are read one line at a time and a missing
// reply is reported as Absent rather than as an error.
//
// # Basic Usage
//
//	cfg, err := scpi.NewConfig("/dev/ttyUSB0",
//	    scpi.WithBaudRate(115200),
//	    scpi.WithReadTimeout(time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s := scpi.NewSession(cfg)
//	if err := s.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	resp, err := s.Query("*IDN?")
//	fmt.Println(resp) // prints "<no response>" if the instrument stayed silent
//
// # Port Discovery
//
//	ports, err := scpi.ListPorts()
//	for _, p := range ports {
//	    fmt.Println(p) // /dev/ttyUSB0 - USB Serial (VID=1a86, PID=7523) [QinHeng]
//	}
//
// # Error Handling
//
// Open failures are returned as *ConnectionError and wrap one of the
// predefined errors when the cause is known:
//
//	var connErr *scpi.ConnectionError
//	if errors.As(err, &connErr) && errors.Is(err, scpi.ErrPermissionDenied) {
//	    // add the user to the dialout group
//	}
//
// The scpitest package provides a simulated instrument for tests.
package scpi
