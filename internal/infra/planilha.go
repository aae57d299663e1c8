package infra

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// PlanilhaExcel adapts an uploaded XLSX workbook to the tabular rows view the
// import service consumes (service.Planilha). All excelize specifics stay
// behind this type; row contents are loaded eagerly so the upload buffer can
// be released as soon as parsing finishes.
type PlanilhaExcel struct {
	abas map[string][][]string
}

// AbrirPlanilha parses the workbook from r and loads every sheet.
func AbrirPlanilha(r io.Reader) (*PlanilhaExcel, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilha: %w", err)
	}
	defer f.Close()

	abas := make(map[string][][]string, f.SheetCount)
	for _, nome := range f.GetSheetList() {
		linhas, err := f.GetRows(nome)
		if err != nil {
			return nil, fmt.Errorf("ler aba %q: %w", nome, err)
		}
		abas[nome] = linhas
	}
	return &PlanilhaExcel{abas: abas}, nil
}

// Aba returns the rows of the named sheet, or ok=false when absent.
func (p *PlanilhaExcel) Aba(nome string) ([][]string, bool) {
	linhas, ok := p.abas[nome]
	return linhas, ok
}
