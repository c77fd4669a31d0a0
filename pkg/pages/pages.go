// Package pages holds the static HTML documents served by the relay.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	SignupFile  = "signup.html"
	SuccessFile = "success.html"
	FailureFile = "failure.html"
)

// Pages are served verbatim; their content is never inspected.
type Pages struct {
	Signup  []byte
	Success []byte
	Failure []byte
}

// Load reads all three documents from dir. A missing document is an error,
// so the process refuses to start rather than failing per request.
func Load(dir string) (*Pages, error) {
	var p Pages
	for name, dst := range map[string]*[]byte{
		SignupFile:  &p.Signup,
		SuccessFile: &p.Success,
		FailureFile: &p.Failure,
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("error loading page %s: %w", name, err)
		}
		*dst = data
	}
	return &p, nil
}
