/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package naming renders machine image names from templates.
package naming

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/gosimple/slug"
)

const (
	minNameLength = 3
	maxNameLength = 128

	// keptSuffixLength covers a "-v" separator and a millisecond timestamp
	keptSuffixLength = 24
)

// Vars are the values available to an image name template
type Vars struct {
	Group    string
	Account  string
	Instance string
	Time     time.Time
}

// ImageName renders tmpl with vars using Go templates, Sprig functions and slug,
// then reduces the result to characters an AMI name may contain
func ImageName(tmpl string, vars Vars) (string, error) {
	funcs := sprig.TxtFuncMap()
	funcs["slug"] = slug.Make

	t, err := template.New("image-name").
		Funcs(funcs).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse image name template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute image name template: %w", err)
	}

	name := Sanitize(buf.String())
	if len(name) < minNameLength {
		return "", fmt.Errorf("image name %q is shorter than %d characters", name, minNameLength)
	}

	return name, nil
}

// Sanitize replaces characters AMI names do not allow with '-'. Names over the
// maximum length lose characters from the middle so the trailing timestamp survives.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if allowed(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}

	result := b.String()
	if len(result) > maxNameLength {
		result = result[:maxNameLength-keptSuffixLength] + result[len(result)-keptSuffixLength:]
	}
	return result
}

// allowed reports whether r may appear in an AMI name
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("()[] ./-'@_", r)
}
