package domain

import (
	"path"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// LabelPrefix marks a label as rooted at the workspace.
const LabelPrefix = "//"

var validTargetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+$`)

// Label identifies a target by its package path and name.
// Labels are comparable values and can be used as map keys.
type Label struct {
	Package string
	Name    string
}

// NewLabel creates a label from a package path and a target name.
func NewLabel(pkg, name string) Label {
	return Label{Package: strings.Trim(pkg, "/"), Name: name}
}

// ParseLabel parses a canonical label of the form //pkg/path:name.
// The short form //pkg/path refers to the target named after the last package segment.
func ParseLabel(s string) (Label, error) {
	if !strings.HasPrefix(s, LabelPrefix) {
		return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, ""), "label", s)
	}
	body := strings.TrimPrefix(s, LabelPrefix)

	pkg, name, hasName := strings.Cut(body, ":")
	if !hasName {
		if pkg == "" {
			return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, ""), "label", s)
		}
		name = path.Base(pkg)
	}

	if strings.HasPrefix(pkg, "/") || strings.HasSuffix(pkg, "/") || strings.Contains(pkg, "//") {
		return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, ""), "label", s)
	}
	if err := ValidateTargetName(name); err != nil {
		return Label{}, zerr.With(err, "label", s)
	}

	return Label{Package: pkg, Name: name}, nil
}

// ValidateTargetName checks that a target name only uses allowed characters.
func ValidateTargetName(name string) error {
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(ErrInvalidTargetName, ""), "name", name)
	}
	return nil
}

// String returns the canonical //pkg:name form.
func (l Label) String() string {
	return LabelPrefix + l.Package + ":" + l.Name
}

// IsZero reports whether the label is unset.
func (l Label) IsZero() bool {
	return l == Label{}
}
