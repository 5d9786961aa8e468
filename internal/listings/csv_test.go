package listings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffCarro,Grupo,Motor,Câmbio,Preço Baixa,Preço Alta,Disponibilidade\n" +
	"Fiat Mobi,A,1.0,Manual,\"R$ 120,00\",\"R$ 150,00\",Disponível\n" +
	"Jeep Renegade,F,1.3 Turbo,Automático,250,\"R$ 1.320,50\",\n" +
	",,,,,,\n" +
	"Fiat Mobi,B,1.0,Manual,10,20,\n" +
	",X,1.0,Manual,10,20,\n" +
	"Chevrolet Onix,C,,,99.5,abc,Isca\n"

func TestParseCSV(t *testing.T) {
	items, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, items, 3)

	mobi := items[0]
	assert.Equal(t, "Fiat Mobi", mobi.Name)
	assert.Equal(t, "A", mobi.Group, "first duplicate wins")
	assert.Equal(t, "120", mobi.LowRate.String())
	assert.Equal(t, "150", mobi.HighRate.String())
	assert.Equal(t, "Disponível", mobi.Status)

	renegade := items[1]
	assert.Equal(t, "Automático", renegade.Transmission)
	assert.Equal(t, "1320.5", renegade.HighRate.String())
	assert.Equal(t, "", renegade.Status)

	onix := items[2]
	assert.Equal(t, DefaultEngine, onix.Engine)
	assert.Equal(t, DefaultTransmission, onix.Transmission)
	assert.Equal(t, "99.5", onix.LowRate.String())
	assert.True(t, onix.HighRate.IsZero())
}

func TestParseCSV_MissingOptionalColumns(t *testing.T) {
	items, err := ParseCSV(strings.NewReader("VEICULO\nKwid\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)

	l := items[0]
	assert.Equal(t, "Kwid", l.Name)
	assert.Equal(t, DefaultGroup, l.Group)
	assert.Equal(t, DefaultEngine, l.Engine)
	assert.Equal(t, DefaultTransmission, l.Transmission)
	assert.True(t, l.LowRate.IsZero())
	assert.True(t, l.HighRate.IsZero())
	assert.Empty(t, l.Status)
}

func TestParseCSV_MissingNameColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Grupo,Motor\nA,1.0\n"))
	assert.ErrorIs(t, err, ErrMissingNameColumn)

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingNameColumn)
}

func TestTable_Get(t *testing.T) {
	items, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	table := &Table{Listings: items}

	l, ok := table.Get("Jeep Renegade")
	require.True(t, ok)
	assert.Equal(t, "F", l.Group)

	l, ok = table.Get("  chevrolet ONIX ")
	require.True(t, ok)
	assert.Equal(t, "Chevrolet Onix", l.Name)

	_, ok = table.Get("Ferrari")
	assert.False(t, ok)

	assert.Equal(t, []string{"Fiat Mobi", "Jeep Renegade", "Chevrolet Onix"}, table.Names())
	assert.True(t, (&Table{}).Empty())
}
