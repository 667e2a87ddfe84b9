// Package fstest provides a conformance test suite for validating backend
// implementations against the core.FileSystem contract.
//
// This package contains test functions that can be imported and executed by
// backend packages to verify they correctly implement core.FileSystem.
//
// The test suite is designed to validate interface contracts, not backend-specific
// behavior. Different backends have different capabilities (object stores have
// no real directories), and the tests verify that all backends honor the contract
// while gracefully handling documented differences.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    fstest.TestSuite(t, func() core.FileSystem {
//	        return mybackend.New()
//	    })
//	}
package fstest

import (
	"testing"

	"github.com/candidtim/unifs/fs/core"
)

// FSTestConfig configures the test suite to match filesystem behavior characteristics.
type FSTestConfig struct {
	// VirtualDirectories indicates directories are virtual (e.g., S3 prefixes).
	// When true, empty directories may not survive and Mkdir of an existing
	// directory is not an error.
	VirtualDirectories bool

	// ImplicitParentDirs indicates files can be created without parent directories.
	// When true, Pipe("a/b/c.txt") succeeds even if "a" and "a/b" don't exist.
	ImplicitParentDirs bool

	// SkipTests lists specific test names to skip (for edge cases).
	// Format: "TestGroup/SubTest" (e.g., "WriteFS/PipeInNonExistentDir").
	SkipTests []string
}

// POSIXTestConfig returns configuration for POSIX-like filesystems (local, memory).
func POSIXTestConfig() FSTestConfig {
	return FSTestConfig{
		VirtualDirectories: false,
		ImplicitParentDirs: false,
	}
}

// S3TestConfig returns configuration for S3-like filesystems (MinIO, S3).
func S3TestConfig() FSTestConfig {
	return FSTestConfig{
		VirtualDirectories: true,
		ImplicitParentDirs: true,
	}
}

// skipped reports whether name is listed in config.SkipTests and skips t if so.
func skipped(t *testing.T, config FSTestConfig, name string) bool {
	t.Helper()
	for _, skip := range config.SkipTests {
		if skip == name {
			t.Skip("Skipped by provider configuration")
			return true
		}
	}
	return false
}

// TestSuite runs all conformance tests against a filesystem.
// The newFS function should return a fresh, empty filesystem for each test.
// Tests will create/modify files, so each invocation should start clean.
// Uses POSIXTestConfig() by default.
func TestSuite(t *testing.T, newFS func() core.FileSystem) {
	TestSuiteWithConfig(t, newFS, POSIXTestConfig())
}

// TestSuiteWithConfig runs conformance tests with behavior configuration.
func TestSuiteWithConfig(t *testing.T, newFS func() core.FileSystem, config FSTestConfig) {
	t.Run("ReadFS", func(t *testing.T) {
		if skipped(t, config, "ReadFS") {
			return
		}
		TestReadFSWithConfig(t, newFS(), config)
	})

	t.Run("WriteFS", func(t *testing.T) {
		if skipped(t, config, "WriteFS") {
			return
		}
		TestWriteFSWithConfig(t, newFS(), config)
	})

	t.Run("ManageFS", func(t *testing.T) {
		if skipped(t, config, "ManageFS") {
			return
		}
		TestManageFSWithConfig(t, newFS(), config)
	})

	t.Run("GlobFS", func(t *testing.T) {
		if skipped(t, config, "GlobFS") {
			return
		}
		TestGlobFSWithConfig(t, newFS(), config)
	})
}

// mustPipe writes a setup file or fails the test.
func mustPipe(t *testing.T, filesystem core.FileSystem, name string, data []byte) {
	t.Helper()
	if err := filesystem.Mkdir(parent(name), true); err != nil {
		t.Fatalf("Mkdir(%s): setup failed: %v", parent(name), err)
	}
	if err := filesystem.Pipe(name, data); err != nil {
		t.Fatalf("Pipe(%s): setup failed: %v", name, err)
	}
}

func parent(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[:i]
		}
	}
	return "."
}

// names extracts the name of every record.
func names(infos []core.Info) []string {
	result := make([]string, 0, len(infos))
	for _, info := range infos {
		name, _ := info[core.KeyName].(string)
		result = append(result, name)
	}
	return result
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
