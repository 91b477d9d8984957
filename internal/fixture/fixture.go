// Package fixture ships a small reference table and a matching forest for
// tests across the module.
//
// The forest predicts 74000 for a 30 year old male Software Engineer with a
// Bachelor's Degree and 5 years of experience.
package fixture

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing"
)

// Reference is a CSV in the layout of the cleaned salary table.
//
//go:embed reference.csv
var Reference []byte

// Model is a three-tree random forest trained against Reference's encoding.
//
//go:embed model.json
var Model []byte

// Expected prediction of the canonical request.
const CanonicalSalary = 74000.0

// Files writes Reference and Model into a temp dir and returns their paths.
func Files(t testing.TB) (referencePath, modelPath string) {
	t.Helper()
	dir := t.TempDir()
	referencePath = filepath.Join(dir, "reference.csv")
	modelPath = filepath.Join(dir, "model.json")
	Write(t, referencePath, Reference)
	Write(t, modelPath, Model)
	return referencePath, modelPath
}

// Write stores data at path or fails the test.
func Write(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}
