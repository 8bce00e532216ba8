package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestWriteCSV(t *testing.T) {
	all := StaticProducts()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, all[:3]))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, exportHeader, records[0])

	assert.Equal(t, []string{"Canva Pro", "Design", "", "", "$9.99", "∞", all[0].Description}, records[1])
	assert.Equal(t, []string{"Canva Pro + AI", "Design; AI", "", "", "$29.99", "∞", all[1].Description}, records[2])
	assert.Equal(t, []string{"CapCut Pro", "Video", "$11.99", "$14.99", "$34.99", "2", all[2].Description}, records[3])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, StaticProducts()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Catalog"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, len(seeds)+1)
	assert.Equal(t, "Product", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Google Drive (Upgrade)", sheet.Rows[len(seeds)].Cells[0].String())
}

func TestCopyText(t *testing.T) {
	p := StaticProducts()[2]
	want := "CapCut Pro\n\n6-Month: $11.99\n1-Year: $14.99\nLifetime: $34.99\n\nDevices: 2\n\nNew shared account. Filters, effects, transitions, 4K export."
	assert.Equal(t, want, CopyText(p))
}

func TestDevicesJSON(t *testing.T) {
	b, err := json.Marshal([]Devices{Limited(5), Unlimited()})
	require.NoError(t, err)
	assert.JSONEq(t, `[5,"unlimited"]`, string(b))

	var back []Devices
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Devices{Limited(5), Unlimited()}, back)

	var bad Devices
	assert.Error(t, json.Unmarshal([]byte(`0`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`"infinite"`), &bad))
}

func TestProduct_Purchasable(t *testing.T) {
	p := &Product{Name: "Nothing offered", Devices: Limited(1)}
	assert.False(t, p.Purchasable())
	_, ok := p.MinPrice()
	assert.False(t, ok)
	assert.Empty(t, NewProductView(p).Plans)

	for _, sp := range StaticProducts() {
		assert.True(t, sp.Purchasable(), sp.Name)
	}
}
