// Package match holds the display-name selection rules shared by the
// installed-product and Security Center locators.
package match

import (
	"fmt"
	"regexp"
	"strings"
)

// protected matches the display name of the built-in Windows security
// product. Entries matching it are never selected, regardless of the
// caller-supplied pattern. There is no option to disable this.
var protected = regexp.MustCompile(`Windows Defender`)

// Matcher pairs a caller-supplied display-name pattern with the built-in
// product exclusion.
type Matcher struct {
	pattern *regexp.Regexp
}

// Compile validates and compiles the caller-supplied pattern.
func Compile(expr string) (*Matcher, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("display-name pattern is required")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid display-name pattern %q: %w", expr, err)
	}
	return &Matcher{pattern: re}, nil
}

// Selects reports whether displayName matches the pattern and is not the
// protected built-in product.
func (m *Matcher) Selects(displayName string) bool {
	return m.pattern.MatchString(displayName) && !protected.MatchString(displayName)
}

// Protected reports whether displayName names the built-in product.
func Protected(displayName string) bool {
	return protected.MatchString(displayName)
}
