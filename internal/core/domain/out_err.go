package domain

import "io"

// OutErr pairs the standard and error streams a command writes to.
type OutErr struct {
	out io.Writer
	err io.Writer
}

// NewOutErr creates an OutErr from two writers.
func NewOutErr(out, err io.Writer) OutErr {
	return OutErr{out: out, err: err}
}

// Out returns the standard output stream.
func (o OutErr) Out() io.Writer {
	return o.out
}

// Err returns the error stream.
func (o OutErr) Err() io.Writer {
	return o.err
}

// Valid reports whether both streams are set.
func (o OutErr) Valid() bool {
	return o.out != nil && o.err != nil
}
