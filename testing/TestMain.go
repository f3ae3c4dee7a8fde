// Package testing puts the process in test mode when imported for side
// effects from a _test.go file.
package testing

import (
	"os"
	stdtesting "testing"
)

var testEnv = map[string]string{
	"VETSTORE_TEST_MODE": "1",
	"JWT_SECRET":         "test-secret",
	"LOG_FORMAT":         "text",
}

func init() {
	for key, value := range testEnv {
		if _, set := os.LookupEnv(key); !set || key == "VETSTORE_TEST_MODE" {
			_ = os.Setenv(key, value)
		}
	}
}

// TestMain runs m after init has prepared the environment.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
