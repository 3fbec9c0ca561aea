package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// LineReader reads shell input.
type LineReader interface {
	// ReadLine returns the next line without its terminator. It
	// returns io.EOF when input ends.
	ReadLine() (string, error)
	// ReadPassword prompts and reads a line without echo where possible.
	ReadPassword(prompt string) (string, error)
	SetPrompt(prompt string)
	// Output is where the shell writes.
	Output() io.Writer
	Close() error
}

// plainReader reads lines from a non-terminal.
type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

// NewPlainReader creates a reader for piped input. Prompts are written
// to out.
func NewPlainReader(in io.Reader, out io.Writer) LineReader {
	return &plainReader{in: bufio.NewReader(in), out: out}
}

func (r *plainReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, r.prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) ReadPassword(prompt string) (string, error) {
	saved := r.prompt
	r.prompt = prompt
	defer func() { r.prompt = saved }()
	return r.ReadLine()
}

func (r *plainReader) SetPrompt(prompt string) { r.prompt = prompt }
func (r *plainReader) Output() io.Writer       { return r.out }
func (r *plainReader) Close() error            { return nil }

// termReader is a raw-mode line editor on a terminal.
type termReader struct {
	fd    int
	state *term.State
	t     *term.Terminal
}

// IsTerminal reports whether fd is a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// NewTerminalReader puts fd in raw mode and returns a line editor over
// rw. Close restores the terminal.
func NewTerminalReader(fd int, rw io.ReadWriter, c *Completer) (LineReader, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	t := term.NewTerminal(rw, "")
	if w, h, err := term.GetSize(fd); err == nil {
		t.SetSize(w, h)
	}
	if c != nil {
		t.AutoCompleteCallback = c.Callback
	}
	return &termReader{fd: fd, state: state, t: t}, nil
}

func (r *termReader) ReadLine() (string, error) {
	return r.t.ReadLine()
}

func (r *termReader) ReadPassword(prompt string) (string, error) {
	return r.t.ReadPassword(prompt)
}

func (r *termReader) SetPrompt(prompt string) { r.t.SetPrompt(prompt) }
func (r *termReader) Output() io.Writer       { return r.t }

func (r *termReader) Close() error {
	return term.Restore(r.fd, r.state)
}
