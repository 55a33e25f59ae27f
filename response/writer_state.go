package response

// writerState tracks which section of a response the Writer expects next.
// Sections only move forward: status line, headers, body, then finished.
type writerState uint8

const (
	expectStatusLine writerState = iota
	expectHeaders
	expectBody
	finished
)

var writerStateNames = [...]string{
	expectStatusLine: "status line",
	expectHeaders:    "headers",
	expectBody:       "body",
	finished:         "finished",
}

func (s writerState) String() string {
	if int(s) < len(writerStateNames) {
		return writerStateNames[s]
	}
	return "unknown"
}

// next returns the state following s. finished is terminal.
func (s writerState) next() writerState {
	if s >= finished {
		return finished
	}
	return s + 1
}
