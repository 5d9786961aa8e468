package listings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bher20/locadora/pkg/shared"
)

// ErrMissingNameColumn is returned when no header names the vehicle column.
var ErrMissingNameColumn = errors.New("listings: vehicle name column not found")

type column int

const (
	colName column = iota
	colGroup
	colEngine
	colTransmission
	colLowPrice
	colHighPrice
	colStatus
)

// headerAliases maps folded header text to its column.
var headerAliases = map[string]column{
	"carro":           colName,
	"veiculo":         colName,
	"modelo":          colName,
	"vehicle":         colName,
	"grupo":           colGroup,
	"group":           colGroup,
	"motor":           colEngine,
	"motorizacao":     colEngine,
	"engine":          colEngine,
	"cambio":          colTransmission,
	"transmission":    colTransmission,
	"preco baixa":     colLowPrice,
	"low price":       colLowPrice,
	"preco alta":      colHighPrice,
	"high price":      colHighPrice,
	"disponibilidade": colStatus,
	"status":          colStatus,
	"availability":    colStatus,
}

// ParseCSV reads the listing spreadsheet. Fully blank rows and rows without a
// vehicle name are dropped; when a name repeats, the first row wins.
func ParseCSV(r io.Reader) ([]Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingNameColumn
	}
	if err != nil {
		return nil, fmt.Errorf("listings: read header: %w", err)
	}

	index := make(map[column]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		c, ok := headerAliases[shared.Fold(h)]
		if !ok {
			continue
		}
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	if _, ok := index[colName]; !ok {
		return nil, ErrMissingNameColumn
	}

	seen := make(map[string]struct{})
	var out []Listing
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listings: read row: %w", err)
		}
		if blank(rec) {
			continue
		}

		row := rowFrom(rec, index)
		l := row.Listing()
		if l.Name == "" {
			continue
		}
		if _, dup := seen[l.Name]; dup {
			continue
		}
		seen[l.Name] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

func rowFrom(rec []string, index map[column]int) Row {
	cell := func(c column) *string {
		i, ok := index[c]
		if !ok || i >= len(rec) {
			return nil
		}
		v := rec[i]
		return &v
	}
	row := Row{
		Group:        cell(colGroup),
		Engine:       cell(colEngine),
		Transmission: cell(colTransmission),
		LowPrice:     cell(colLowPrice),
		HighPrice:    cell(colHighPrice),
		Status:       cell(colStatus),
	}
	if name := cell(colName); name != nil {
		row.Name = *name
	}
	return row
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
