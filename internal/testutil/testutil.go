// Package testutil holds helpers shared by package tests
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ayoisaiah/toolbox/internal/osutil"
)

const fixtureDir = "testdata"

// GoldenTest produces the output to compare and the name of its golden file.
type GoldenTest interface {
	Output() ([]byte, string)
}

// CompareGoldenFile checks the output of tc against its golden file under
// testdata. A nil output asserts that no golden file exists. Line endings
// are normalised so the same fixtures work on every platform.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	output, name := tc.Output()

	if output == nil {
		f := filepath.Join(fixtureDir, name+".golden")

		_, err := os.Stat(f)
		if err == nil {
			t.Fatalf("expected no output, but golden file exists: %s", f)
		}

		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("checking golden file %s: %v", f, err)
		}

		return
	}

	output = bytes.ReplaceAll(output, []byte("\r\n"), []byte("\n"))

	g := goldie.New(t, goldie.WithFixtureDir(fixtureDir))
	g.Assert(t, name, output)
}

// CopyFile copies src to dst, creating the parent directory of dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	if err = osutil.EnsureDir(dst); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying file: %w", err)
	}

	return out.Close()
}
