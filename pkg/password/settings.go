// pkg/password/settings.go

package password

// DefaultLength is the length used before the user picks one.
const DefaultLength = 18

// DefaultRequest is 18 characters with every optional pool enabled.
func DefaultRequest() Request {
	return Request{
		Length:                 DefaultLength,
		IncludeNumbers:         true,
		IncludeExtendedLetters: true,
		IncludeSymbols:         true,
	}
}

// Record holds the most recently applied generation request so the host can
// regenerate without collecting every input again. It has a single owner
// and is not safe for concurrent use.
type Record struct {
	current Request
}

// NewRecord returns a record holding DefaultRequest.
func NewRecord() *Record {
	return &Record{current: DefaultRequest()}
}

// Update overwrites every field with req. No validation is done here.
func (r *Record) Update(req Request) {
	r.current = req
}

// Current returns a snapshot of the last applied request.
func (r *Record) Current() Request {
	return r.current
}
