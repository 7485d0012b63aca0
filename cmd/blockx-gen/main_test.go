package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// runCmd executes the root command with args and returns stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newModule lays out a small module with two packages and returns its root.
func newModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/shop\n\ngo 1.24\n")
	writeFile(t, filepath.Join(root, "orders"), "orders.go", `package orders

import "example.com/shop/tags"

type Order struct {
	tags.Private
	ID string
}

type Status int

type Reader interface{ Read() }
`)
	writeFile(t, filepath.Join(root, "tags"), "tags.go", `package tags

type Private struct{}

type internalOnly struct{}
`)
	writeFile(t, filepath.Join(root, "tags", "testdata"), "fixture.go", "package fixture\n\ntype Ignored struct{}\n")
	writeFile(t, filepath.Join(root, "docs"), "README.md", "no go here\n")
	return root
}
