package refs

import (
	"fmt"
	"strings"
)

// FullName is the validated, slash-separated name of a reference,
// relative to the repository base, like "refs/heads/main".
type FullName string

// PartialName is a validated name fragment that may omit the leading
// namespace, like "main" or "heads/main".
type PartialName string

// String returns the name as a plain string.
func (n FullName) String() string { return string(n) }

// Shorten removes the best-known namespace prefix for display purposes.
func (n FullName) Shorten() string {
	s := string(n)
	for _, prefix := range []string{"refs/heads/", "refs/tags/", "refs/remotes/", "refs/"} {
		if strings.HasPrefix(s, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// ValidatePartialName checks whether name is a syntactically legal
// partial reference name: relative, slash-separated, without empty
// components, without a "." or ".." component, and without control
// characters. It performs no I/O.
func ValidatePartialName(name string) error {
	if name == "" {
		return fmt.Errorf("reference name must not be empty")
	}
	if name[0] == '/' {
		return fmt.Errorf("reference name %q must not be absolute", name)
	}
	for _, comp := range strings.Split(name, "/") {
		switch comp {
		case "":
			return fmt.Errorf("reference name %q must not contain empty components", name)
		case ".", "..":
			return fmt.Errorf("reference name %q must not contain a %q component", name, comp)
		}
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c == 0x7f {
			return fmt.Errorf("reference name %q must not contain control characters", name)
		}
	}
	return nil
}

// expandPartialName lists the full names a partial name may stand for,
// in the order git tries them.
func expandPartialName(name string) []string {
	return []string{
		name,
		"refs/" + name,
		"refs/tags/" + name,
		"refs/heads/" + name,
		"refs/remotes/" + name,
		"refs/remotes/" + name + "/HEAD",
	}
}
