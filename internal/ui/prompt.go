package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var (
	// ErrNoInput is returned when the input stream is exhausted.
	ErrNoInput   = errors.New("no more input")
	ErrNotNumber = errors.New("not a number")
)

type readResult struct {
	line string
	err  error
}

// Prompter asks questions on out and reads answers line by line from in. Every read
// honours ctx: a cancelled context returns ctx.Err() even while a read is blocked.
type Prompter struct {
	in      io.Reader
	r       *bufio.Reader
	out     io.Writer
	pending chan readResult
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *Prompter) Out() io.Writer { return p.out }

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Line prints label and returns the next input line with surrounding spaces removed.
func (p *Prompter) Line(ctx context.Context, label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.await(ctx, func() readResult {
		line, err := p.r.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		if err == io.EOF {
			err = ErrNoInput
		}
		return readResult{strings.TrimSpace(line), err}
	})
}

// Password reads a line without echo when in is a terminal.
func (p *Prompter) Password(ctx context.Context, label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || p.pending != nil {
		return p.Line(ctx, label)
	}
	fmt.Fprint(p.out, label)
	line, err := p.await(ctx, func() readResult {
		b, err := term.ReadPassword(int(f.Fd()))
		return readResult{strings.TrimSpace(string(b)), err}
	})
	fmt.Fprintln(p.out)
	return line, err
}

// Int reads an integer. Input that is not a number yields ErrNotNumber.
func (p *Prompter) Int(ctx context.Context, label string) (int64, error) {
	s, err := p.Line(ctx, label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotNumber
	}
	return n, nil
}

// Confirm returns true only for "y" or "Y".
func (p *Prompter) Confirm(ctx context.Context, label string) (bool, error) {
	s, err := p.Line(ctx, label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y"), nil
}

func (p *Prompter) await(ctx context.Context, read func() readResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() { ch <- read() }()
		p.pending = ch
	}
	select {
	case <-ctx.Done():
		// the blocked read stays pending and is consumed by the next call
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		return res.line, res.err
	}
}
