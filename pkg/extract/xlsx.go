package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

type xlsxWorkbook struct {
	Sheets []xlsxSheetRef `xml:"sheets>sheet"`
}

type xlsxSheetRef struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"` // r:id
}

type xlsxRelationships struct {
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type xlsxSharedStrings struct {
	Items []xlsxText `xml:"si"`
}

// xlsxText is a plain or rich text run container (<si> or <is>).
type xlsxText struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (t xlsxText) String() string {
	if len(t.Runs) == 0 {
		return t.T
	}
	var b strings.Builder
	b.WriteString(t.T)
	for _, r := range t.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

type xlsxWorksheet struct {
	Rows []xlsxRow `xml:"sheetData>row"`
}

type xlsxRow struct {
	R     int        `xml:"r,attr"`
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref    string    `xml:"r,attr"`
	Type   string    `xml:"t,attr"`
	Value  string    `xml:"v"`
	Inline *xlsxText `xml:"is"`
}

// extractXLSX reads the first worksheet of an Office Open XML workbook.
func extractXLSX(filePath string, content []byte) ([]types.TextBlock, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &Error{Path: filePath, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("failed to open xlsx as zip: %w", err)}
	}

	files := make(map[string]*zip.File, len(zipReader.File))
	for _, f := range zipReader.File {
		files[f.Name] = f
	}

	sheetName, sheetPath := firstSheet(files)
	if sheetPath == "" {
		return nil, &Error{Path: filePath, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("no worksheet found")}
	}

	var sheet xlsxWorksheet
	if err := readXML(files[sheetPath], &sheet); err != nil {
		return nil, &Error{Path: filePath, Format: FormatSpreadsheet, Kind: KindParse, Err: fmt.Errorf("failed to read %s: %w", sheetPath, err)}
	}

	// A missing or broken shared string table only empties the cells that
	// reference it.
	var sst xlsxSharedStrings
	if f := files["xl/sharedStrings.xml"]; f != nil {
		_ = readXML(f, &sst)
	}

	var blocks []types.TextBlock
	nextRow := 1
	for _, row := range sheet.Rows {
		rowNum := row.R
		if rowNum <= 0 {
			rowNum = nextRow
		}
		nextRow = rowNum + 1

		nextCol := 1
		for _, c := range row.Cells {
			col := nextCol
			if _, refCol, ok := parseCellRef(c.Ref); ok {
				col = refCol
			}
			nextCol = col + 1

			blocks = append(blocks, cellBlock(filePath, sheetName, rowNum, col, cellText(c, sst)))
		}
	}

	return blocks, nil
}

// firstSheet resolves the first sheet listed in the workbook to its part
// name. Without a usable workbook it falls back to the lowest-numbered
// worksheet part.
func firstSheet(files map[string]*zip.File) (name, partName string) {
	var wb xlsxWorkbook
	var rels xlsxRelationships
	if readXML(files["xl/workbook.xml"], &wb) == nil && len(wb.Sheets) > 0 &&
		readXML(files["xl/_rels/workbook.xml.rels"], &rels) == nil {
		ref := wb.Sheets[0]
		for _, rel := range rels.Relationships {
			if rel.ID != ref.RID {
				continue
			}
			target := rel.Target
			if strings.HasPrefix(target, "/") {
				target = strings.TrimPrefix(target, "/")
			} else {
				target = path.Join("xl", target)
			}
			if files[target] != nil {
				return ref.Name, target
			}
		}
	}

	var candidates []string
	for n := range files {
		if strings.HasPrefix(n, "xl/worksheets/sheet") && strings.HasSuffix(n, ".xml") {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return "", ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		return sheetNumber(candidates[i]) < sheetNumber(candidates[j])
	})
	return "", candidates[0]
}

func sheetNumber(partName string) int {
	n := strings.TrimSuffix(strings.TrimPrefix(partName, "xl/worksheets/sheet"), ".xml")
	i, err := strconv.Atoi(n)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return i
}

// cellText returns the string representation of a cell. Numbers and dates
// keep the value stored in the file, which does not depend on locale.
func cellText(c xlsxCell, sst xlsxSharedStrings) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(sst.Items) {
			return ""
		}
		return sst.Items[idx].String()
	case "inlineStr":
		if c.Inline == nil {
			return ""
		}
		return c.Inline.String()
	case "b":
		switch strings.TrimSpace(c.Value) {
		case "1":
			return "TRUE"
		case "0":
			return "FALSE"
		}
		return c.Value
	default:
		return c.Value
	}
}

// parseCellRef splits an A1-style reference into 1-based row and column.
func parseCellRef(ref string) (row, col int, ok bool) {
	i := 0
	for i < len(ref) {
		ch := ref[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			break
		}
		col = col*26 + int(ch-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, false
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row <= 0 {
		return 0, 0, false
	}
	return row, col, true
}

func readXML(f *zip.File, v any) error {
	if f == nil {
		return fmt.Errorf("missing part")
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}
