package integration

import (
	"os"
	"testing"

	"github.com/dimitrije/taskmanager-api/tests/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// setupTest creates a test database and returns it; cleanup is registered on t
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	return testutil.SetupTestDB(t)
}

func discardLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

const bcryptCost = bcrypt.MinCost
