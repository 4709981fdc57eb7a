package testutil

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"testing"
)

// storeEnvVars are printed by PrintEnvironmentInfo in this order
var storeEnvVars = []string{"GO_ENV", "STORE_DRIVER", "STORAGE_KEY", "DATA_DIR", "REDIS_ADDR", "AWS_S3_BUCKET", "PORT"}

// RequireTestEnvironment fails the test unless GO_ENV is "test". Suites call
// it before touching any store so a stray DATABASE_URL or REDIS_ADDR from a
// developer shell never receives test writes.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("refusing to run against order stores with GO_ENV=%q, set GO_ENV=test", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	RequireTestEnvironment(t)
}

// PrintEnvironmentInfo writes the store related environment to w.
// Suites call it from TearDownSuite when a test failed.
func PrintEnvironmentInfo(w io.Writer) {
	fmt.Fprintln(w, "Test Environment Info:")
	for _, name := range storeEnvVars {
		fmt.Fprintf(w, "  %s: %s\n", name, os.Getenv(name))
	}
	fmt.Fprintf(w, "  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
}

// maskDatabaseURL hides the password of a connection URL and flags
// databases whose name does not look like a test database
func maskDatabaseURL(raw string) string {
	if raw == "" {
		return "(not set)"
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		// Plain sqlite paths carry no credentials
		return raw + testDBMarker(raw)
	}
	return u.Redacted() + testDBMarker(u.Path)
}

func testDBMarker(name string) string {
	if containsTest(name) {
		return " [test]"
	}
	return " [WARNING: may not be a test database]"
}

func containsTest(s string) bool {
	return strings.Contains(strings.ToLower(s), "test")
}
