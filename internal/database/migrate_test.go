package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredMigrations_OrderedAndPaired(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms, "embedded migrations should be registered")

	for i, m := range ms {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpScript, "migration %s missing up script", m.String())
		assert.NotEmpty(t, m.DownScript, "migration %s missing down script", m.String())
		if i > 0 {
			assert.Greater(t, m.Version, ms[i-1].Version, "migrations must be ordered by version")
		}
	}
}

func TestGetMigrationByVersion(t *testing.T) {
	m := GetMigrationByVersion(1)
	require.NotNil(t, m)
	assert.Equal(t, "init_schema", m.Name)
	assert.Equal(t, "000001_init_schema", m.String())

	assert.Nil(t, GetMigrationByVersion(999999))
}

func TestTagCleanupMigration_BacksUpBeforeRewriting(t *testing.T) {
	m := GetMigrationByVersion(3)
	require.NotNil(t, m)

	backupIdx := strings.Index(m.UpScript, "CREATE TABLE post_tags_backup")
	updateIdx := strings.Index(m.UpScript, "UPDATE posts")
	require.NotEqual(t, -1, backupIdx)
	require.NotEqual(t, -1, updateIdx)
	assert.Less(t, backupIdx, updateIdx, "backup must be taken before tags are rewritten")

	assert.Contains(t, m.DownScript, "post_tags_backup")
}

func TestTagCleanupMigration_KeepsMentionOrder(t *testing.T) {
	m := GetMigrationByVersion(3)
	require.NotNil(t, m)

	assert.Contains(t, m.UpScript, "WITH ORDINALITY")
	assert.Contains(t, m.UpScript, "ORDER BY t.ord")
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{
		{Version: 1, Name: "init_schema"},
		{Version: 2, Name: "rls_policies"},
	}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}
