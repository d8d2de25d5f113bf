package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestSchemaDeclaresDocumentConstraints(t *testing.T) {
	po, err := fs.ReadFile(files, "sql/000002_purchase_orders.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(po), "purchase_orders_external_number_company_code_key UNIQUE (external_number, company_code)")

	dn, err := fs.ReadFile(files, "sql/000003_delivery_notes.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(dn), "delivery_notes_external_number_key UNIQUE (external_number)")
}
