// Package gate decides whether a resolved version tag satisfies a release
// constraint such as ">= 1.4" or "^2".
package gate

import (
	"errors"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidConstraint = errors.New("invalid version constraint")
	ErrInvalidVersion    = errors.New("version is not representable as semver")
)

// Check reports whether tag satisfies constraint. An empty constraint always
// passes and an empty tag never does.
func Check(tag, constraint string) (bool, error) {
	if strings.TrimSpace(constraint) == "" {
		return true, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, goerr.Wrap(ErrInvalidConstraint, err.Error(), goerr.V("constraint", constraint))
	}

	if tag == "" {
		return false, nil
	}

	// semver only knows major.minor.patch; "v1.2.3.4" has no faithful mapping.
	if strings.Count(tag, ".") > 2 {
		return false, goerr.Wrap(ErrInvalidVersion, "too many components", goerr.V("version", tag))
	}

	v, err := semver.NewVersion(tag)
	if err != nil {
		return false, goerr.Wrap(ErrInvalidVersion, err.Error(), goerr.V("version", tag))
	}

	return c.Check(v), nil
}
