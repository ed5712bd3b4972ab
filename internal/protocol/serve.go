package protocol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/debug"
	"github.com/standardbeagle/rustsonar/internal/orchestrator"
)

// Serve runs the request loop: read an "analyze" command, analyze its
// source payload, and write the result records, until the command stream
// ends or a command other than "analyze" is read. A FileError for one
// request is reported to stderr and the loop continues; a GlobalError ends
// the loop.
func Serve(in io.Reader, out io.Writer, stderr io.Writer, parameters map[string]string) error {
	writer := NewResponseWriter(out)

	for {
		source, ok, err := ReadRequest(in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		output, err := orchestrator.Analyze(source, parameters)
		if err != nil {
			if analyzererr.IsGlobal(err) {
				fmt.Fprint(stderr, ErrorLine(err.Error()))
				return nil
			}
			fmt.Fprint(stderr, WarnLine(err.Error()))
			continue
		}

		if err := writeResponse(writer, output); err != nil {
			return err
		}
	}
}

func writeResponse(w *bufio.Writer, output orchestrator.Output) error {
	for _, token := range output.HighlightTokens {
		if err := WriteString(w, "highlight"); err != nil {
			return err
		}
		if err := WriteString(w, token.TokenType.SonarAPIName()); err != nil {
			return err
		}
		if err := WriteLocation(w, token.Location); err != nil {
			return err
		}
	}

	if err := WriteString(w, "metrics"); err != nil {
		return err
	}
	for _, v := range []int32{
		output.Metrics.Ncloc,
		output.Metrics.CommentLines,
		output.Metrics.Functions,
		output.Metrics.Statements,
		output.Metrics.Classes,
		output.Metrics.CognitiveComplexity,
		output.Metrics.CyclomaticComplexity,
	} {
		if err := WriteInt32(w, v); err != nil {
			return err
		}
	}

	for _, token := range output.CpdTokens {
		if err := WriteString(w, "cpd"); err != nil {
			return err
		}
		if err := WriteString(w, token.Image); err != nil {
			return err
		}
		if err := WriteLocation(w, token.Location); err != nil {
			return err
		}
	}

	for _, iss := range output.Issues {
		if err := WriteString(w, "issue"); err != nil {
			return err
		}
		if err := WriteString(w, iss.RuleKey); err != nil {
			return err
		}
		if err := WriteString(w, iss.Message); err != nil {
			return err
		}
		if err := WriteLocation(w, iss.Location); err != nil {
			return err
		}
	}

	if err := WriteString(w, "end"); err != nil {
		return err
	}

	debug.LogProtocol("wrote response: %d highlight, %d cpd, %d issues",
		len(output.HighlightTokens), len(output.CpdTokens), len(output.Issues))

	return w.Flush()
}
