// Package protocol implements the length-prefixed request/response framing
// the analyzer speaks over stdin/stdout: a command name, a length-prefixed
// source payload, and a length-prefixed stream of result records.
//
// Every value on the wire is big-endian. The framing itself has no
// ecosystem library behind it in the reference implementation either (it
// is a bespoke stdio protocol, not an RPC format any client library
// speaks) so this package uses encoding/binary directly rather than
// reaching for a serialization library that doesn't fit the wire shape.
package protocol

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/standardbeagle/rustsonar/internal/debug"
	"github.com/standardbeagle/rustsonar/internal/tree"
)

// analyzeCommand is the only recognized command name; any other value
// (including EOF) ends the loop.
const analyzeCommand = "analyze"

// ReadInt32 reads a single big-endian int32.
func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// ReadString reads a length-prefixed, UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadInt32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteInt32 writes a single big-endian int32.
func WriteInt32(w io.Writer, value int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(value))
	_, err := w.Write(buf[:])
	return err
}

// WriteString writes a length-prefixed string.
func WriteString(w io.Writer, value string) error {
	if err := WriteInt32(w, int32(len(value))); err != nil {
		return err
	}
	_, err := io.WriteString(w, value)
	return err
}

// WriteLocation writes a display location as four consecutive int32s.
func WriteLocation(w io.Writer, loc tree.Location) error {
	for _, v := range []int32{
		int32(loc.StartLine), int32(loc.StartColumn),
		int32(loc.EndLine), int32(loc.EndColumn),
	} {
		if err := WriteInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadRequest reads one "analyze" command's source payload. ok is false
// (with a nil error) when the command name isn't "analyze" — the signal to
// stop serving.
func ReadRequest(r io.Reader) (source []byte, ok bool, err error) {
	command, err := ReadString(r)
	if err != nil {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}
	if command != analyzeCommand {
		return nil, false, nil
	}

	n, err := ReadInt32(r)
	if err != nil {
		return nil, false, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, false, err
	}
	debug.LogProtocol("read analyze request of %d bytes", n)
	return buf, true, nil
}

// FlushWriter is satisfied by buffered writers that need an explicit flush
// after each response.
type FlushWriter interface {
	io.Writer
	Flush() error
}

// NewResponseWriter wraps w in a bufio.Writer suitable for FlushWriter.
func NewResponseWriter(w io.Writer) *bufio.Writer {
	return bufio.NewWriter(w)
}

// WarnLine formats a recoverable (file-scoped) error for stderr.
func WarnLine(message string) string {
	return fmt.Sprintf("warn %s\n", message)
}

// ErrorLine formats a fatal (process-scoped) error for stderr.
func ErrorLine(message string) string {
	return fmt.Sprintf("error %s\n", message)
}
