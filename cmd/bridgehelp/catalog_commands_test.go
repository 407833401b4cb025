package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brojonat/bridgehelp/service/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCatalogValidateCommand(t *testing.T) {
	path := writeFile(t, `
version: 1
options:
  - id: support-contact
    kind: contact
    title: Contact support
    body: Open a ticket.
    min_age: 10m
`)

	out, err := runApp(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog is valid (1 rules)")
	assert.Contains(t, out, "support-contact")
}

func TestCatalogValidateCommand_Invalid(t *testing.T) {
	path := writeFile(t, `
version: 1
options:
  - id: a
    kind: contact
    title: A
  - id: a
    kind: gossip
    title: B
`)

	_, err := runApp(t, "catalog", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "a"`)
	assert.Contains(t, err.Error(), `unknown kind "gossip"`)
}

func TestCatalogValidateCommand_MissingArgument(t *testing.T) {
	_, err := runApp(t, "catalog", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly one catalog file")
}

func TestCatalogDefaultCommand(t *testing.T) {
	out, err := runApp(t, "catalog", "default")
	require.NoError(t, err)

	rules, err := catalog.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultRules(), rules)
}

func TestCatalogPushCommand_RequiresDatabase(t *testing.T) {
	os.Unsetenv("CATALOG_DATABASE_URL")
	path := writeFile(t, "version: 1\noptions: []\n")

	_, err := runApp(t, "catalog", "push", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database-url is required")
}

func TestCatalogPushCommand_Database(t *testing.T) {
	if os.Getenv("SKIP_DB_TESTS") != "" {
		t.Skip("Skipping database test")
	}
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	data, err := catalog.Marshal(catalog.DefaultRules())
	require.NoError(t, err)
	path := writeFile(t, string(data))

	out, err := runApp(t, "--database-url", dbURL, "catalog", "push", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pushed")
}
