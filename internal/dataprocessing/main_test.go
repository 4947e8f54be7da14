package dataprocessing

import (
	"testing"

	"go.uber.org/goleak"
)

// LoadFiles fans out per workbook; every worker must be gone when it returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
