// Package model defines the data structures shared by the reduction engine.
package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Path represents a file system path.
type Path string

// Kind tells how a source artifact is parsed, printed and checked for validity.
type Kind string

const (
	// KindCode is a JavaScript program.
	KindCode Kind = "code"
	// KindData is a JSON document; it is parsed as a parenthesized expression
	// and printed as the bare expression.
	KindData Kind = "data"
)

const defaultExt = "js"

var extPattern = regexp.MustCompile(`\.(\w+)$`)

// Ext returns the extension of path without the leading dot. Paths without a
// word-character extension are treated as JavaScript.
func Ext(path Path) string {
	match := extPattern.FindStringSubmatch(string(path))
	if match == nil {
		return defaultExt
	}

	return match[1]
}

// DetectKind derives the artifact kind from the file extension.
func DetectKind(path Path) Kind {
	if strings.EqualFold(Ext(path), "json") {
		return KindData
	}

	return KindCode
}

// IsSource reports whether the directory reducer should reduce the file at
// path with a syntax-aware session after it survived deletion.
func IsSource(path Path) bool {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".js", ".mjs", ".cjs", ".json":
		return true
	}

	return false
}
