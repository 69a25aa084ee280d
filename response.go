package scpi

// NoResponse is how an absent reply is rendered.
const NoResponse = "<no response>"

// Response is the outcome of reading one line from the instrument: either
// a line of text or Absent. Absent is a normal outcome, not an error.
type Response struct {
	text    string
	present bool
}

// Absent means no complete line arrived within the read timeout.
var Absent = Response{}

// Line returns a present response holding text.
func Line(text string) Response {
	return Response{text: text, present: true}
}

// Text returns the line and true, or "" and false when absent.
func (r Response) Text() (string, bool) {
	return r.text, r.present
}

func (r Response) IsAbsent() bool {
	return !r.present
}

func (r Response) String() string {
	if !r.present {
		return NoResponse
	}
	return r.text
}
