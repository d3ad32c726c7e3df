package reporting

import "strings"

// ExcelMimeType is what the SpreadsheetML payload is served as.
const ExcelMimeType = "application/vnd.ms-excel"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Workbook renders a single-sheet SpreadsheetML 2003 workbook, the XML
// dialect Excel opens as a native spreadsheet. The header row is bold;
// every cell is written as a string to keep identifiers and dates
// exactly as rendered.
func Workbook(sheetName string, headers []string, rows [][]string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"` +
		` xmlns:o="urn:schemas-microsoft-com:office:office"` +
		` xmlns:x="urn:schemas-microsoft-com:office:excel"` +
		` xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">` + "\n")
	b.WriteString(`<Styles><Style ss:ID="header"><Font ss:Bold="1"/></Style></Styles>` + "\n")
	b.WriteString(`<Worksheet ss:Name="` + xmlEscaper.Replace(sheetName) + `"><Table>` + "\n")

	b.WriteString(`<Row>`)
	for _, h := range headers {
		b.WriteString(`<Cell ss:StyleID="header"><Data ss:Type="String">`)
		b.WriteString(xmlEscaper.Replace(h))
		b.WriteString(`</Data></Cell>`)
	}
	b.WriteString("</Row>\n")

	for _, row := range rows {
		b.WriteString(`<Row>`)
		for _, cell := range row {
			b.WriteString(`<Cell><Data ss:Type="String">`)
			b.WriteString(xmlEscaper.Replace(cell))
			b.WriteString(`</Data></Cell>`)
		}
		b.WriteString("</Row>\n")
	}

	b.WriteString("</Table></Worksheet>\n</Workbook>\n")
	return []byte(b.String())
}
