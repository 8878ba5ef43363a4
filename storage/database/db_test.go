package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/accommodations/storage/database"
	"github.com/trezcool/accommodations/tests"
)

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := testutil.NewConfig(t)
	conf.Database.Engine = "oracle"

	_, err := database.Open(conf)
	assert.EqualError(t, err, `unsupported database engine "oracle"`)
}

func TestCreateIfNotExist_sqlite(t *testing.T) {
	assert.NoError(t, database.CreateIfNotExist(testutil.NewConfig(t)))
}

func TestInitialize_seedsOnlyEmptyTables(t *testing.T) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)
	ctx := context.Background()

	assert.Equal(t, 4, testutil.Count(t, db, "accommodation_types", ""))
	assert.Equal(t, 8, testutil.Count(t, db, "classes", ""))

	// existing data survives a restart
	asha := testutil.CreateStudent(t, db, "Asha Patel", 10)
	_, err := db.Exec(db.Rebind("DELETE FROM classes WHERE class_name = ?"), "History")
	require.NoError(t, err)

	require.NoError(t, database.Initialize(ctx, db, conf.Database.Engine))
	assert.Equal(t, 4, testutil.Count(t, db, "accommodation_types", ""))
	assert.Equal(t, 7, testutil.Count(t, db, "classes", ""))
	assert.Equal(t, 1, testutil.Count(t, db, "students", "student_id = ?", asha.ID))
}

func TestReset(t *testing.T) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)

	asha := testutil.CreateStudent(t, db, "Asha Patel", 10)
	testutil.Enroll(t, db, asha.ID, testutil.ClassByName(t, db, "Physics").ID, "HL", ".1")

	require.NoError(t, database.Reset(context.Background(), db, conf.Database.Engine))
	assert.Zero(t, testutil.Count(t, db, "students", ""))
	assert.Zero(t, testutil.Count(t, db, "student_classes", ""))
	assert.Equal(t, 4, testutil.Count(t, db, "accommodation_types", ""))
	assert.Equal(t, 8, testutil.Count(t, db, "classes", ""))
}

func TestRunMigrations_status(t *testing.T) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)

	assert.NoError(t, database.RunMigrations(db, conf.Database.Engine, "status"))
	assert.Error(t, database.RunMigrations(db, conf.Database.Engine, "lol"))
}
