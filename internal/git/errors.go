package git

import (
	"strings"
)

// ExecError is a failed git invocation. It carries the arguments, the
// exit status and the stderr text of the native command.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	b := new(strings.Builder)
	b.WriteString("git ")
	b.WriteString(strings.Join(e.Args, " "))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
