package tui

// OutcomeKind tells the caller what to do after a key was handled.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeQuit
	// OutcomeTakeInput means a text field started receiving keys.
	OutcomeTakeInput
	// OutcomeError means an operation failed; an Info popup describing it
	// is already open.
	OutcomeError
)

// Outcome is the result of dispatching one key.
type Outcome struct {
	Kind  OutcomeKind
	Title string
	Err   error
}

func quit() Outcome { return Outcome{Kind: OutcomeQuit} }

func takeInput() Outcome { return Outcome{Kind: OutcomeTakeInput} }

func failed(title string, err error) Outcome {
	return Outcome{Kind: OutcomeError, Title: title, Err: err}
}
