package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

var _ ports.SpreadsheetCodec = (*Codec)(nil)

const (
	checkInSheet  = "Check-ins"
	maxImportRows = 1000
)

var checkInHeaders = []string{
	"Date", "Technician", "Job type", "Customer", "Customer email", "Customer phone",
	"Address", "City", "State", "Zip", "Notes", "Photos",
}

// Codec exporta visitas e importa técnicos con excelize.
type Codec struct{}

// NewCodec constructor.
func NewCodec() *Codec { return &Codec{} }

// ExportCheckIns genera un libro con una hoja de visitas.
func (Codec) ExportCheckIns(list []*entity.CheckIn, technicianNames map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", checkInSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	for i, h := range checkInHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(checkInSheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(checkInSheet, 1, 1, bold)
	}

	for r, c := range list {
		tech := technicianNames[c.TechnicianID]
		if tech == "" {
			tech = c.TechnicianID
		}
		values := []any{
			c.CreatedAt.Format("2006-01-02 15:04"), tech, c.JobType, c.CustomerName, c.CustomerEmail,
			c.CustomerPhone, c.Address, c.City, c.State, c.Zip, c.Notes, len(c.Photos),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(checkInSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r+2, err)
		}
	}
	_ = f.SetColWidth(checkInSheet, "A", "L", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseTechnicians lee la primera hoja. La primera fila son cabeceras
// (name, email, phone, specialty, location; en cualquier orden). Filas sin nombre se ignoran.
func (Codec) ParseTechnicians(r io.Reader) ([]ports.TechnicianRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: abrir archivo: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("xlsx: el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer filas: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx: hoja vacía")
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		idx[normalizeHeader(h)] = i
	}
	nameCol, ok := idx["name"]
	if !ok {
		return nil, fmt.Errorf("xlsx: falta la columna name")
	}
	col := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok {
			return ""
		}
		return cellValue(row, i)
	}

	var out []ports.TechnicianRow
	for n, row := range rows[1:] {
		if len(out) >= maxImportRows {
			break
		}
		name := cellValue(row, nameCol)
		if name == "" {
			continue
		}
		out = append(out, ports.TechnicianRow{
			Line:      n + 2,
			Name:      name,
			Email:     strings.ToLower(col(row, "email")),
			Phone:     col(row, "phone"),
			Specialty: col(row, "specialty"),
			Location:  col(row, "location"),
		})
	}
	return out, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
