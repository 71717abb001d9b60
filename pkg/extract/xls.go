package extract

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// extractXLS reads the first sheet of a legacy BIFF workbook.
func extractXLS(path string, content []byte) ([]types.TextBlock, error) {
	if !bytes.HasPrefix(content, oleMagic) {
		return nil, &Error{Path: path, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("not an OLE2 compound document")}
	}

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, &Error{Path: path, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("failed to open xls: %w", err)}
	}
	if wb == nil {
		return nil, &Error{Path: path, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("no Workbook stream")}
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	var blocks []types.TextBlock
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := xlsRow(sheet, r)
		if row == nil {
			continue
		}
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			blocks = append(blocks, cellBlock(path, sheet.Name, r+1, c+1, xlsCell(row, c)))
		}
	}

	return blocks, nil
}

// xlsRow returns the row at index r, or nil when the sheet stores none.
func xlsRow(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}

// xlsCell reads one cell, treating a cell the library cannot decode as empty.
func xlsCell(row *xls.Row, col int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return row.Col(col)
}
