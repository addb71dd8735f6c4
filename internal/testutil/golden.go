package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/ir"
)

// AssertSpecGolden compares the indented document of spec against
// testdata/golden/{name}.golden in the calling package.
//
// To regenerate golden files, run the package tests with -update.
func AssertSpecGolden(t *testing.T, name string, spec *ir.Spec) {
	t.Helper()

	data, err := ir.MarshalIndent(ir.SpecDocument(spec))
	require.NoError(t, err)

	AssertGolden(t, name, data)
}

// AssertGolden compares data against testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
