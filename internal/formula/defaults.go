package formula

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed defaults.txt
var defaultsText string

var (
	defaultsOnce  sync.Once
	defaultSet    []*Formula
	defaultSetErr error
)

// Defaults returns the built-in formula library. The embedded file is
// parsed once per process; callers get fresh uninitialized clones, so
// initializing one run's formulas never leaks state into another.
func Defaults() []*Formula {
	defaultsOnce.Do(func() {
		defaultSet, defaultSetErr = ParseFormulaFile(strings.NewReader(defaultsText))
		if defaultSetErr != nil {
			defaultSetErr = fmt.Errorf("built-in formula library: %w", defaultSetErr)
		}
	})
	if defaultSetErr != nil {
		// The embedded library is part of the binary; failing to parse
		// it is a build defect, not a runtime condition.
		panic(defaultSetErr)
	}
	out := make([]*Formula, len(defaultSet))
	for i, f := range defaultSet {
		out[i] = f.Clone()
	}
	return out
}
