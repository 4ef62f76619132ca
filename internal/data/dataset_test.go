package data

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "UnitID,Sensor01,Pass/Fail\nU1,1.5,-1\nU2,,1\n"
	ds, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"UnitID", "Sensor01", "Pass/Fail"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "1.5", ds.Rows[0]["Sensor01"])
	assert.Equal(t, "", ds.Rows[1]["Sensor01"])
	assert.Equal(t, "-1", ds.Rows[0]["Pass/Fail"])
}

func TestReadCSVShortRecord(t *testing.T) {
	in := "A,B,C\n1,2\n"
	ds, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "", ds.Rows[0]["C"])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestGenerateSensorCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.csv")
	rng := rand.New(rand.NewSource(42))
	require.NoError(t, GenerateSensorCSV(200, 0.1, path, rng))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ds, err := ReadCSV(f)
	require.NoError(t, err)

	assert.Equal(t, 200, ds.Len())
	assert.Contains(t, ds.Columns, "Pass/Fail")
	assert.Contains(t, ds.Columns, "Timestamp")
	assert.Contains(t, ds.Columns, "Sensor01")

	fails := 0
	for _, row := range ds.Rows {
		v := row["Pass/Fail"]
		require.Contains(t, []string{"-1", "1"}, v)
		if v == "-1" {
			fails++
		}
	}
	assert.Greater(t, fails, 0)
	assert.Less(t, fails, 200)
}

func TestGenerateSensorCSVInvalidCount(t *testing.T) {
	err := GenerateSensorCSV(0, 0.1, filepath.Join(t.TempDir(), "x.csv"), nil)
	assert.Error(t, err)
}
