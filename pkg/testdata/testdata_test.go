package testdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Scenarios"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)

	rows := [][]interface{}{
		{"scenario_name", "username", "password", "product_name", "expected_error", "order_number", "ignored_extra"},
		{"valid-login", "standard_user", "secret_sauce", "Backpack", "", "", "noise"},
		{"locked-out", "locked_out_user", "secret_sauce", "", "Sorry, this user has been locked out.", "", ""},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	creds := "Credentials"
	_, err = f.NewSheet(creds)
	require.NoError(t, err)
	credRows := [][]interface{}{
		{"role", "username", "password"},
		{"admin", "admin_user", "admin_sauce"},
	}
	for i, row := range credRows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(creds, cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "testdata.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRowBindsDeclaredColumns(t *testing.T) {
	store, err := Open(writeWorkbook(t), "Scenarios", "Credentials")
	require.NoError(t, err)
	defer store.Close()

	row, err := store.Row("valid-login")
	require.NoError(t, err)

	assert.Equal(t, "valid-login", row.ScenarioName)
	assert.Equal(t, "standard_user", row.Username)
	assert.Equal(t, "secret_sauce", row.Password)
	assert.Equal(t, "Backpack", row.ProductName)
	assert.Empty(t, row.ExpectedError)
}

func TestRowUnknownScenario(t *testing.T) {
	store, err := Open(writeWorkbook(t), "Scenarios", "Credentials")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Row("does-not-exist")
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	store, err := Open(writeWorkbook(t), "Scenarios", "Credentials")
	require.NoError(t, err)
	defer store.Close()

	user, pass, err := store.Credentials("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin_user", user)
	assert.Equal(t, "admin_sauce", pass)

	_, _, err = store.Credentials("ghost")
	assert.Error(t, err)
}

func TestWriteBackRoundTrip(t *testing.T) {
	path := writeWorkbook(t)

	store, err := Open(path, "Scenarios", "Credentials")
	require.NoError(t, err)

	require.NoError(t, store.WriteBack("valid-login", "order_number", "ORD-1042"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Close())

	reopened, err := Open(path, "Scenarios", "Credentials")
	require.NoError(t, err)
	defer reopened.Close()

	row, err := reopened.Row("valid-login")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1042", row.OrderNumber)
}

func TestWriteBackRejectsUndeclaredColumn(t *testing.T) {
	store, err := Open(writeWorkbook(t), "Scenarios", "Credentials")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteBack("valid-login", "ignored_extra", "x")
	assert.Error(t, err, "columns outside the mapping must be rejected")
}

func TestOpenMissingSheet(t *testing.T) {
	_, err := Open(writeWorkbook(t), "Nope", "Credentials")
	assert.Error(t, err)
}

func TestRowRequiresScenarioNameColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Scenarios"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	header := []interface{}{"username", "password"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, f.SaveAs(path))

	store, err := Open(path, sheet, "Credentials")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Row("anything")
	assert.ErrorContains(t, err, "scenario_name")
}
