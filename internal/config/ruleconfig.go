// Package config resolves rule parameters (e.g. "S3776:threshold") from
// layered sources: built-in defaults, an optional .rustsonar.kdl file, and
// CLI overrides, in that increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/semantic"
)

// ConfigFileName is the project-local override file checked for in the
// current working directory.
const ConfigFileName = ".rustsonar.kdl"

// KnownParameters lists every rule parameter the engine recognizes. Keys
// not in this list are rejected with a suggestion for the nearest match.
var KnownParameters = []string{
	"S3776:threshold",
}

// Defaults returns the built-in parameter values, before any file or CLI
// overrides are layered on.
func Defaults() map[string]string {
	return map[string]string{
		"S3776:threshold": "15",
	}
}

// RuleParameters resolves the final parameter map: defaults, overridden by
// the contents of path (if it exists), overridden by cliOverrides. path may
// be empty, in which case only the current directory's .rustsonar.kdl (if
// any) is consulted.
func RuleParameters(path string, cliOverrides map[string]string) (map[string]string, error) {
	params := Defaults()

	if path == "" {
		path = ConfigFileName
	}
	fileParams, err := loadKDLFile(path)
	if err != nil {
		return nil, err
	}
	for k, v := range fileParams {
		if err := validateKey(k); err != nil {
			return nil, err
		}
		params[k] = v
	}

	for k, v := range cliOverrides {
		if err := validateKey(k); err != nil {
			return nil, err
		}
		params[k] = v
	}

	return params, nil
}

// loadKDLFile reads and parses path, returning an empty map (not an error)
// if the file does not exist.
func loadKDLFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, analyzererr.NewGlobalError("config.loadKDLFile",
			fmt.Sprintf("failed to read %s: %v", filepath.Clean(path), err))
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, analyzererr.NewGlobalError("config.loadKDLFile",
			fmt.Sprintf("failed to parse %s: %v", path, err))
	}

	params := make(map[string]string)
	for _, n := range doc.Nodes {
		if nodeName(n) != "rules" {
			continue
		}
		for _, ruleNode := range n.Children {
			ruleKey := nodeName(ruleNode)
			for _, paramNode := range ruleNode.Children {
				paramName := nodeName(paramNode)
				value, ok := paramValue(paramNode)
				if !ok {
					continue
				}
				params[ruleKey+":"+paramName] = value
			}
		}
	}
	return params, nil
}

// paramValue renders a parameter node's first argument as a string,
// regardless of whether KDL parsed it as an int, float, bool, or string.
func paramValue(n *document.Node) (string, bool) {
	if i, ok := firstIntArg(n); ok {
		return strconv.Itoa(i), true
	}
	if f, ok := firstFloatArg(n); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	if b, ok := firstBoolArg(n); ok {
		return strconv.FormatBool(b), true
	}
	if s, ok := firstStringArg(n); ok {
		return s, true
	}
	return "", false
}

// keySuggester matches an unrecognized parameter key against KnownParameters
// by Jaro-Winkler similarity, with a threshold of 0.80.
var keySuggester = semantic.NewFuzzyMatcher(true, 0.80, "jaro-winkler")

// validateKey rejects unrecognized parameter keys, suggesting the closest
// known key when one is a plausible typo.
func validateKey(key string) error {
	for _, known := range KnownParameters {
		if known == key {
			return nil
		}
	}

	matches := keySuggester.FindMatches(key, KnownParameters)

	msg := fmt.Sprintf("unrecognized rule parameter %q", key)
	if len(matches) > 0 {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, matches[0].Term)
	}
	return analyzererr.NewGlobalError("config.validateKey", msg)
}

// nodeName returns a KDL node's name, or "" for a nil node.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	if f, ok := n.Arguments[0].Value.(float64); ok {
		return f, true
	}
	return 0, false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
