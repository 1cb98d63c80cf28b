package csvstore

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pallapizza/daily-report-runner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, body string) *domain.Fields {
	t.Helper()
	var f domain.Fields
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	return &f
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestStore_Append_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather", "daily_reports.csv")
	s := New(path)

	require.NoError(t, s.Append(record(t, `{"date":"2025-03-14","venue":"BILBAO","objective":1200,"clima":"sunny"}`)))
	require.NoError(t, s.Append(record(t, `{"date":"2025-03-14","venue":"BURGOS","objective":900.5,"clima":null}`)))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "venue", "objective", "clima"}, rows[0])
	assert.Equal(t, []string{"2025-03-14", "BILBAO", "1200", "sunny"}, rows[1])
	assert.Equal(t, []string{"2025-03-14", "BURGOS", "900.5", ""}, rows[2])
}

func TestStore_Append_NestedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.csv")
	s := New(path)

	require.NoError(t, s.Append(record(t, `{"venue":"VITORIA","productos_bajo_stock":["queso","harina"],"hay_futbol":true,"frase":"¡Ánimo, \"equipo\"!"}`)))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"VITORIA", `["queso","harina"]`, "true", `¡Ánimo, "equipo"!`}, rows[1])
}

func TestStore_Append_ExistingFileKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,venue\n"), 0o644))

	require.NoError(t, New(path).Append(record(t, `{"date":"2025-03-14","venue":"ZARAGOZA"}`)))

	rows := readRows(t, path)
	assert.Equal(t, [][]string{{"date", "venue"}, {"2025-03-14", "ZARAGOZA"}}, rows)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", cell(nil))
	assert.Equal(t, "", cell(json.RawMessage(`null`)))
	assert.Equal(t, "a\nb", cell(json.RawMessage(`"a\nb"`)))
	assert.Equal(t, "ñ", cell(json.RawMessage(`"ñ"`)))
	assert.Equal(t, "42", cell(json.RawMessage(`42`)))
}
