package formula

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// The golden file pins the expanded rendering of the built-in library:
// every // shortcut duplicated into the numerator, fraction
// coefficients decimalized. A diff here means the library or the
// renderer changed.
func TestDefaults_Golden(t *testing.T) {
	var b strings.Builder
	for _, f := range Defaults() {
		b.WriteString("@ ")
		b.WriteString(f.Description)
		b.WriteString("\n$ ")
		b.WriteString(f.Expression())
		b.WriteString("\n\n")
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "defaults", []byte(b.String()))
}
