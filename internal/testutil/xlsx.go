package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Sheet is one worksheet of an XLSX fixture. Row values may be strings,
// ints, float64s or bools; nil leaves the cell out.
type Sheet struct {
	Name string
	Rows [][]any
}

// XLSX returns a minimal Office Open XML workbook containing sheets in
// order. Strings are written to the shared string table.
func XLSX(sheets ...Sheet) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var shared []string
	sharedIdx := make(map[string]int)
	intern := func(s string) int {
		if i, ok := sharedIdx[s]; ok {
			return i
		}
		sharedIdx[s] = len(shared)
		shared = append(shared, s)
		return sharedIdx[s]
	}

	var sheetRefs, rels, overrides strings.Builder
	for i, sh := range sheets {
		n := i + 1
		fmt.Fprintf(&sheetRefs, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, xmlEscape(sh.Name), n, n)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet%d.xml"/>`, n, n)
		fmt.Fprintf(&overrides, `<Override PartName="/xl/worksheets/sheet%d.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, n)

		var data strings.Builder
		for r, row := range sh.Rows {
			fmt.Fprintf(&data, `<row r="%d">`, r+1)
			for c, v := range row {
				ref := fmt.Sprintf("%s%d", columnName(c+1), r+1)
				switch val := v.(type) {
				case nil:
					continue
				case string:
					fmt.Fprintf(&data, `<c r="%s" t="s"><v>%d</v></c>`, ref, intern(val))
				case bool:
					b := 0
					if val {
						b = 1
					}
					fmt.Fprintf(&data, `<c r="%s" t="b"><v>%d</v></c>`, ref, b)
				default:
					fmt.Fprintf(&data, `<c r="%s"><v>%v</v></c>`, ref, val)
				}
			}
			data.WriteString(`</row>`)
		}
		write(zw, fmt.Sprintf("xl/worksheets/sheet%d.xml", n),
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
				`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`+
				data.String()+`</sheetData></worksheet>`)
	}

	var sst strings.Builder
	for _, s := range shared {
		fmt.Fprintf(&sst, `<si><t xml:space="preserve">%s</t></si>`, xmlEscape(s))
	}

	write(zw, "[Content_Types].xml",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
			`<Default Extension="xml" ContentType="application/xml"/>`+
			`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`+
			`<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>`+
			overrides.String()+`</Types>`)
	write(zw, "xl/workbook.xml",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`+
			`<sheets>`+sheetRefs.String()+`</sheets></workbook>`)
	write(zw, "xl/_rels/workbook.xml.rels",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
			rels.String()+`</Relationships>`)
	write(zw, "xl/sharedStrings.xml",
		fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="%d" uniqueCount="%d">%s</sst>`,
			len(shared), len(shared), sst.String()))

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func write(zw *zip.Writer, name, content string) {
	w, err := zw.Create(name)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		panic(err)
	}
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		panic(err)
	}
	return b.String()
}

func columnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}
