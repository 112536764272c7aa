// Package testutil holds test helpers shared across packages.
package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is the fixture directory, relative to the package under test.
const GoldenDir = "testdata/golden"

// Golden returns a goldie instance reading GoldenDir/<name>.golden.
func Golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertGolden compares data against GoldenDir/<name>.golden.
//
// To regenerate golden files, run the package tests with -update:
//
//	go test ./internal/tbgen -update
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	Golden(t).Assert(t, name, data)
}
