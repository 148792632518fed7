// Package transform implements the text operations that can be applied to
// a history item before copying it.
package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operation names a text transform.
type Operation string

const (
	Uppercase          Operation = "uppercase"
	Lowercase          Operation = "lowercase"
	TitleCase          Operation = "titlecase"
	Trim               Operation = "trim"
	CollapseWhitespace Operation = "collapse-whitespace"
	RemoveEmptyLines   Operation = "remove-empty-lines"
	SortLines          Operation = "sort-lines"
	Reverse            Operation = "reverse"
	URLEncode          Operation = "url-encode"
	URLDecode          Operation = "url-decode"
	Base64Encode       Operation = "base64-encode"
	Base64Decode       Operation = "base64-decode"
	JSONPretty         Operation = "json-pretty"
	JSONMinify         Operation = "json-minify"
)

type opInfo struct {
	Description string
	Apply       func(string) (string, error)
}

func infallible(fn func(string) string) func(string) (string, error) {
	return func(s string) (string, error) { return fn(s), nil }
}

var operations = map[Operation]opInfo{
	Uppercase: {"convert to UPPER CASE", infallible(func(s string) string {
		return cases.Upper(language.Und).String(s)
	})},
	Lowercase: {"convert to lower case", infallible(func(s string) string {
		return cases.Lower(language.Und).String(s)
	})},
	TitleCase: {"Capitalize Each Word", infallible(func(s string) string {
		return cases.Title(language.Und).String(s)
	})},
	Trim:               {"remove leading and trailing whitespace", infallible(strings.TrimSpace)},
	CollapseWhitespace: {"join all whitespace runs into single spaces", infallible(collapseWhitespace)},
	RemoveEmptyLines:   {"drop blank lines", infallible(removeEmptyLines)},
	SortLines:          {"sort lines alphabetically", infallible(sortLines)},
	Reverse:            {"reverse the characters", infallible(reverse)},
	URLEncode:          {"percent-encode for a URL query", infallible(url.QueryEscape)},
	URLDecode:          {"decode percent-encoding", url.QueryUnescape},
	Base64Encode: {"encode as base64", infallible(func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	})},
	Base64Decode: {"decode base64", base64Decode},
	JSONPretty:   {"indent JSON", jsonPretty},
	JSONMinify:   {"compact JSON", jsonMinify},
}

// Operations returns every operation name, sorted.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operations))
	for op := range operations {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Parse validates name as an Operation.
func Parse(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := operations[op]; !ok {
		return "", fmt.Errorf("unknown transform: %s", name)
	}
	return op, nil
}

// Description returns a short help text for op.
func (op Operation) Description() string {
	return operations[op].Description
}

// Apply runs op on s.
func Apply(op Operation, s string) (string, error) {
	info, ok := operations[op]
	if !ok {
		return "", fmt.Errorf("unknown transform: %s", op)
	}
	out, err := info.Apply(s)
	if err != nil {
		return "", fmt.Errorf("failed to apply %s: %w", op, err)
	}
	return out, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeEmptyLines(s string) string {
	lines := strings.Split(s, "\n")
	lines = slices.DeleteFunc(lines, func(l string) bool { return strings.TrimSpace(l) == "" })
	return strings.Join(lines, "\n")
}

func sortLines(s string) string {
	lines := strings.Split(s, "\n")
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}

func reverse(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)
	return string(runes)
}

func base64Decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func jsonPretty(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func jsonMinify(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
