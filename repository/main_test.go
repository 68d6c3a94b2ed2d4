// repository/main_test.go
package repository

import (
	"go-atm/logger"
	"os"
	"testing"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	// Initialize the logger for the test environment.
	logger.Init()
	os.Exit(m.Run())
}
