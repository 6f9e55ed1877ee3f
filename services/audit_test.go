package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"embedgate/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OriginEvent{}))
	return db
}

func TestOriginAuditRecordAndRecent(t *testing.T) {
	audit := NewOriginAudit(testDB(t))

	audit.Record("https://app.example.com", "https://*.example.com", true, map[string]string{
		"path": "/ws/stream",
	})
	audit.Record("https://evil.com", "", false, nil)

	events, err := audit.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	var allowed, rejected int
	for _, e := range events {
		assert.NotEqual(t, uuid.Nil, e.ID)
		if e.Allowed {
			allowed++
			assert.Equal(t, "https://*.example.com", e.Pattern)
			assert.NotEmpty(t, e.Meta)
		} else {
			rejected++
			assert.Empty(t, e.Pattern)
		}
	}
	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, rejected)
}

func TestOriginAuditRecentLimit(t *testing.T) {
	audit := NewOriginAudit(testDB(t))
	for i := 0; i < 5; i++ {
		audit.Record("https://app.example.com", "https://*.example.com", true, nil)
	}

	events, err := audit.Recent(3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestOriginAuditNilDB(t *testing.T) {
	audit := NewOriginAudit(nil)
	assert.NotPanics(t, func() {
		audit.Record("https://app.example.com", "", false, nil)
	})
}
