package app

import (
	"os"
	"sync"
)

// TestModeEnv is set by the shared test package so binaries linked into tests
// return before touching Postgres or Redis.
const TestModeEnv = "VETSTORE_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(TestModeEnv) == "1"
})

// InTestMode reports whether runtime side effects should be skipped.
func InTestMode() bool {
	return testMode()
}
