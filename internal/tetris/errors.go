package tetris

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic   = errors.New("tetris: bad snapshot magic")
	ErrVersion    = errors.New("tetris: unsupported snapshot version")
	ErrOutOfRange = errors.New("tetris: value out of range")
	ErrTruncated  = errors.New("tetris: snapshot truncated")
)

// DecodeError reports which snapshot field failed to decode.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tetris: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
