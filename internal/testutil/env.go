// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"testing"
)

// Logger returns a logger for tests. Output is discarded unless
// DOCUSTRUCT_TEST_LOG is set.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	var w io.Writer = io.Discard
	if os.Getenv("DOCUSTRUCT_TEST_LOG") != "" {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// WritePDF writes a generated PDF into the test's temp directory and returns its path.
func WritePDF(t *testing.T, name string, pages ...[]TextLine) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	if err := os.WriteFile(path, BuildPDF(pages...), 0o644); err != nil {
		t.Fatalf("failed to write test pdf: %v", err)
	}
	return path
}
