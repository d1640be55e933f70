package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

func TestExportCheckIns(t *testing.T) {
	list := []*entity.CheckIn{{
		ID: "ci1", TechnicianID: "t1", JobType: "AC Repair", CustomerName: "Ana",
		City: "Austin", State: "TX", Photos: []string{"a.jpg", "b.jpg"},
		CreatedAt: time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
	}}
	out, err := NewCodec().ExportCheckIns(list, map[string]string{"t1": "Bob"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(checkInSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Technician", rows[0][1])
	assert.Equal(t, "2026-05-04 10:30", rows[1][0])
	assert.Equal(t, "Bob", rows[1][1])
	assert.Equal(t, "2", rows[1][11])
}

func buildTechniciansFile(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseTechnicians(t *testing.T) {
	buf := buildTechniciansFile(t, [][]any{
		{"Email", " Name ", "Phone", "Specialty"},
		{"BOB@ACME.COM", "Bob", "555-1", "HVAC"},
		{"", "", "", ""},
		{"", "Carla", "", "Plumbing"},
	})

	rows, err := NewCodec().ParseTechnicians(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[0].Name)
	assert.Equal(t, "bob@acme.com", rows[0].Email)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Carla", rows[1].Name)
	assert.Equal(t, 4, rows[1].Line)
	assert.Empty(t, rows[1].Location)
}

func TestParseTechnicians_SinColumnaName(t *testing.T) {
	buf := buildTechniciansFile(t, [][]any{{"email"}, {"x@y.com"}})
	_, err := NewCodec().ParseTechnicians(buf)
	assert.Error(t, err)
}

func TestParseTechnicians_ArchivoInvalido(t *testing.T) {
	_, err := NewCodec().ParseTechnicians(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}
