package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SalvarModeloRequest struct {
	Nome *string `json:"nome" validate:"omitempty,min=2,max=120"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumoImportacaoResponse summarizes one spreadsheet import.
type ResumoImportacaoResponse struct {
	OrcamentoID string          `json:"orcamento_id"`
	CustoTotal  decimal.Decimal `json:"custo_total"`
	VendaTotal  decimal.Decimal `json:"venda_total"`
	BDI         decimal.Decimal `json:"bdi"`
}

// ComposicaoInsumoResponse is a frozen snapshot row of one budget line.
type ComposicaoInsumoResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Codigo        string          `json:"codigo"`
	Descricao     string          `json:"descricao"`
	Unidade       string          `json:"unidade"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	CustoUnitario decimal.Decimal `json:"custo_unitario"`
	CustoTotal    decimal.Decimal `json:"custo_total"`
}

type OrcamentoItemResponse struct {
	ID               string          `json:"id"`
	WBS              string          `json:"wbs,omitempty"`
	Codigo           string          `json:"codigo,omitempty"`
	Descricao        string          `json:"descricao"`
	Unidade          string          `json:"unidade,omitempty"`
	Quantidade       decimal.Decimal `json:"quantidade"`
	Tipo             string          `json:"tipo"`
	ValorUnitario    decimal.Decimal `json:"valor_unitario"`
	ValorTotal       decimal.Decimal `json:"valor_total"`
	CustoMaterial    decimal.Decimal `json:"custo_material"`
	CustoMaoDeObra   decimal.Decimal `json:"custo_mao_de_obra"`
	CustoEquipamento decimal.Decimal `json:"custo_equipamento"`

	Insumos []ComposicaoInsumoResponse `json:"insumos,omitempty"`
}

type OrcamentoResponse struct {
	ID         string          `json:"id"`
	ObraID     *string         `json:"obra_id"`
	Nome       string          `json:"nome"`
	DataBase   string          `json:"data_base"`
	ValorTotal decimal.Decimal `json:"valor_total"`
	BDI        decimal.Decimal `json:"bdi"`
	IsTemplate bool            `json:"is_template"`

	Itens []OrcamentoItemResponse `json:"itens,omitempty"`
}

// ModeloListItem is the shallow listing entry for saved templates.
type ModeloListItem struct {
	ID         string          `json:"id"`
	Nome       string          `json:"nome"`
	DataBase   string          `json:"data_base"`
	ValorTotal decimal.Decimal `json:"valor_total"`
	BDI        decimal.Decimal `json:"bdi"`
	TotalItens int             `json:"total_itens"`
	CreatedAt  string          `json:"created_at"`
}
