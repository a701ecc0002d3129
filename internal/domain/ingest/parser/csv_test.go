package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopHeader = "Name,Created at,Lineitem name,Lineitem quantity,Lineitem price,Lineitem sku,Billing Name,Billing Company,Billing City,Billing Country,Shipping Name,Shipping Company,Shipping City,Shipping Country"

func TestParseShopExport(t *testing.T) {
	data := []byte(shopHeader + "\n" +
		"#1001,2026-01-15 10:30:00 +0000,The Silent Orchard,2,12.50,SKU-1,Jane Doe,,London,United Kingdom,Jane Doe,,London,United Kingdom\n" +
		"#1001,2026-01-15 10:30:00 +0000,Harbour Lights,1,9.99,SKU-2,,Acme Ltd,,,,,,\n")

	rows, err := ParseShopExport(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "#1001", rows[0].Name)
	assert.Equal(t, "The Silent Orchard", rows[0].LineItemName)
	assert.Equal(t, "2", rows[0].LineItemQty)
	assert.Equal(t, "12.50", rows[0].LineItemPrice)
	assert.Equal(t, "Jane Doe", rows[0].BillingName)
	assert.Equal(t, "Acme Ltd", rows[1].BillingCompany)
}

func TestParseShopExport_RowNumbers(t *testing.T) {
	data := []byte(shopHeader + "\n" +
		"#1,,A,1,1.00,,,,,,,,,\n" +
		"#2,,B,1,1.00,,,,,,,,,\n")

	rows, err := ParseShopExport(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Header is line 1, so the first data row is 2.
	assert.Equal(t, 2, rows[0].RowNum)
	assert.Equal(t, 3, rows[1].RowNum)
}

func TestParseShopExport_QuotedFields(t *testing.T) {
	data := []byte(shopHeader + "\n" +
		`#1001,,"Maps, of Nowhere",1,5.00,,"Doe, Jane",,,,,,,` + "\n")

	rows, err := ParseShopExport(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Maps, of Nowhere", rows[0].LineItemName)
	assert.Equal(t, "Doe, Jane", rows[0].BillingName)
}

func TestParseShopExport_ColumnOrderIrrelevant(t *testing.T) {
	// gocsv binds by header label, not position.
	data := []byte("Lineitem name,Name,Lineitem quantity,Lineitem price\n" +
		"Winter Correspondence,#2001,3,7.00\n")

	rows, err := ParseShopExport(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "#2001", rows[0].Name)
	assert.Equal(t, "Winter Correspondence", rows[0].LineItemName)
	assert.Equal(t, "3", rows[0].LineItemQty)
}

func TestParseShopExport_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Lineitem name,Lineitem quantity\n#1,A,1\n")...)

	rows, err := ParseShopExport(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "#1", rows[0].Name)
}

func TestParseShopExport_Empty(t *testing.T) {
	_, err := ParseShopExport(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseShopExport([]byte("   \n  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseShopExport_HeaderOnly(t *testing.T) {
	_, err := ParseShopExport([]byte(shopHeader + "\n"))
	assert.ErrorIs(t, err, ErrNoDataRows)
}
