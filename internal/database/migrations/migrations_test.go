package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrations_UpDownPairs(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups[strings.TrimSuffix(f, ".up.sql")] = true
		case strings.HasSuffix(f, ".down.sql"):
			downs[strings.TrimSuffix(f, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file name %q", f)
		}
	}
	require.Equal(t, ups, downs)
}

func TestMigrations_DeclarePasscodeDomain(t *testing.T) {
	raw, err := fs.ReadFile(Migrations, "000001_create_users.up.sql")
	require.NoError(t, err)

	sql := string(raw)
	require.Contains(t, sql, "CREATE DOMAIN users.passcode AS BYTEA")
	require.Contains(t, sql, "octet_length(VALUE) = 24")
	require.Contains(t, sql, "code       users.passcode NOT NULL")
}
