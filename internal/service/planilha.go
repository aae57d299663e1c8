package service

import "strings"

// Planilha is the tabular view of an uploaded workbook that the importer
// consumes: sheet name → ordered rows → ordered cell values. Parsing the
// binary file format is an infra concern (see infra.AbrirPlanilha); the
// importer never touches the file itself.
type Planilha interface {
	// Aba returns the rows of the named sheet, or ok=false when the
	// workbook has no sheet with that name.
	Aba(nome string) (linhas [][]string, ok bool)
}

// celula returns the trimmed cell at index i, or "" when the row is shorter.
// Spreadsheet rows routinely omit trailing empty cells.
func celula(linha []string, i int) string {
	if i < len(linha) {
		return strings.TrimSpace(linha[i])
	}
	return ""
}
