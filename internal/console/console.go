// Package console implements the line oriented SCPI console: read an
// operator line, send it as a query or a command and print the outcome.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/allbin/go-scpi"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	Prompt       = "SCPI>"
	Disconnected = "Disconnected."
)

// Banner is printed once when Run starts
var Banner = strings.Join([]string{
	"SCPI interactive console",
	"  - Queries end with '?'",
	"  - Empty line exits",
	"  - Raw ASCII over serial",
	strings.Repeat("-", 60),
}, "\n")

// Session is the part of *scpi.Session the console drives
type Session interface {
	Write(command string) error
	Query(command string) (scpi.Response, error)
	CheckError() (scpi.Response, error)
	Close()
}

var _ Session = (*scpi.Session)(nil)

// Console runs operator lines against an open Session
type Console struct {
	session   Session
	out       io.Writer
	autoError bool
	log       zerolog.Logger
	styles    styles
}

// Option configures a Console
type Option func(*Console)

// WithAutoErrorCheck queries SYST:ERR? after every plain command
func WithAutoErrorCheck(enabled bool) Option {
	return func(c *Console) {
		c.autoError = enabled
	}
}

// WithLogger sets the logger for classification and instrument error traces
func WithLogger(log zerolog.Logger) Option {
	return func(c *Console) {
		c.log = log
	}
}

// New returns a console printing to out. The session must already be open;
// Run closes it.
func New(session Session, out io.Writer, opts ...Option) *Console {
	c := &Console{
		session: session,
		out:     out,
		log:     zerolog.Nop(),
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AutoErrorCheck reports whether commands are followed by SYST:ERR?
func (c *Console) AutoErrorCheck() bool {
	return c.autoError
}

// Execute sends one operator line and returns the feedback to show. An
// empty line produces no events. The error is a transport failure; the
// events gathered before it are still returned.
func (c *Console) Execute(line string) ([]Event, error) {
	line = strings.TrimSpace(line)
	kind := Classify(line)
	c.log.Trace().Str("line", line).Stringer("kind", kind).Msg("classified")

	switch kind {
	case KindQuery:
		resp, err := c.session.Query(line)
		if err != nil {
			return nil, err
		}
		return []Event{rxEvent(resp)}, nil

	case KindCommand:
		if err := c.session.Write(line); err != nil {
			return nil, err
		}
		events := []Event{{Kind: EventTX, Text: "OK"}}
		if !c.autoError {
			return events, nil
		}

		resp, err := c.session.CheckError()
		if err != nil {
			return events, err
		}
		if text, ok := resp.Text(); ok && text != "" && !strings.HasPrefix(text, "0") {
			c.log.Debug().Str("command", line).Str("error", text).Msg("instrument error")
			events = append(events, Event{Kind: EventErr, Text: text})
		}
		return events, nil

	default:
		return nil, nil
	}
}

// Run prints the banner and executes operator lines read from in until
// end of input, an empty line, ctx cancellation or a transport error. The
// session is closed and "Disconnected." printed on every path.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	defer func() {
		c.session.Close()
		fmt.Fprintln(c.out, c.styles.status.Render(Disconnected))
	}()

	for _, l := range strings.Split(Banner, "\n") {
		fmt.Fprintln(c.out, c.styles.banner.Render(l))
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		fmt.Fprint(c.out, c.styles.prompt.Render(Prompt)+" ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				// the reader closes lines after storing its error
				return <-readErr
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			return nil
		}

		events, err := c.Execute(line)
		c.Print(events)
		if err != nil {
			return err
		}
	}
}

// Print writes events to the console output, one per line
func (c *Console) Print(events []Event) {
	for _, e := range events {
		fmt.Fprintln(c.out, c.styles.event(e.Kind).Render(e.String()))
	}
}

// readLines feeds lines from in to the returned channel until EOF or done.
// The error channel receives nil at EOF or the read error.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("reading input: %w", err)
			return
		}
		errc <- nil
	}()

	return lines, errc
}
