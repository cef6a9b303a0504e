package errors

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxNameLength = 1024

// firstControl returns the first control rune in s (NUL included).
func firstControl(s string) (rune, bool) {
	i := strings.IndexFunc(s, unicode.IsControl)
	if i < 0 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r, true
}

// ValidateObjectName checks an object name typed on the command line, such
// as an --actor selector. Names must be non-empty, at most 1024 bytes, free
// of control characters and free of '/' or '\'.
func ValidateObjectName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "object name cannot be empty")
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidInput, "object name too long (max %d characters)", maxNameLength)
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidInput, "object name %q cannot contain path separators", name)
	}
	if r, ok := firstControl(name); ok {
		return New(ErrCodeInvalidInput, "object name contains control character %U", r)
	}
	return nil
}

// ValidateDocumentPath accepts any non-empty path without control
// characters whose extension is .json, in any case.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}
	if r, ok := firstControl(path); ok {
		return New(ErrCodeInvalidPath, "document path contains control character %U", r)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".json") {
		return New(ErrCodeInvalidPath, "unsupported document extension %q (want .json)", ext)
	}
	return nil
}

// ValidateActorIndex checks a zero-based export index typed by the user.
// An index past the end is a missing root rather than bad input.
func ValidateActorIndex(index, exports int) error {
	if index < 0 {
		return New(ErrCodeInvalidInput, "actor index cannot be negative: %d", index)
	}
	if index >= exports {
		return New(ErrCodeMissingRoot, "actor index %d out of range (package has %d exports)", index, exports)
	}
	return nil
}
