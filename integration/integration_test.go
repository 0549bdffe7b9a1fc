//go:build integration
// +build integration

package integration

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kshehadeh/pyfluence/internal/config"
	"github.com/kshehadeh/pyfluence/internal/confluence"
)

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("PYFLUENCE_INTEGRATION") == "" {
		t.Skip("PYFLUENCE_INTEGRATION not set; skipping integration tests")
	}
}

func setupClient(t *testing.T) (*confluence.Client, string) {
	t.Helper()

	server := strings.TrimSpace(os.Getenv("PYFLUENCE_SERVER"))
	if server == "" {
		t.Skip("PYFLUENCE_SERVER not set")
	}

	creds := config.Credentials{
		Username: os.Getenv("PYFLUENCE_USERNAME"),
		Password: os.Getenv("PYFLUENCE_PASSWORD"),
	}
	if creds.Username == "" || creds.Password == "" {
		t.Skip("Confluence credentials not provided")
	}

	client, err := confluence.New(server, creds, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, client.Host()
}

// testSpaceKey yields a short unique key so parallel runs do not collide.
func testSpaceKey() string {
	return fmt.Sprintf("PYF%d", time.Now().Unix()%1000000)
}
