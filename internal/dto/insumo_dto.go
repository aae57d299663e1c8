package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarInsumoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,min=1,max=40"`
	Descricao   string          `json:"descricao"    validate:"required,min=2,max=200"`
	Unidade     string          `json:"unidade"`
	Tipo        string          `json:"tipo"         validate:"omitempty,oneof=material mao_de_obra equipamento servico"`
	CustoPadrao decimal.Decimal `json:"custo_padrao" validate:"min=0"`
	Origem      string          `json:"origem"`
}

type AtualizarInsumoRequest struct {
	Descricao   *string          `json:"descricao"    validate:"omitempty,min=2,max=200"`
	Unidade     *string          `json:"unidade"`
	Tipo        *string          `json:"tipo"         validate:"omitempty,oneof=material mao_de_obra equipamento servico"`
	CustoPadrao *decimal.Decimal `json:"custo_padrao"`
	Origem      *string          `json:"origem"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type InsumoFilter struct {
	Busca string `form:"busca"`
	Tipo  string `form:"tipo"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InsumoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Descricao   string          `json:"descricao"`
	Unidade     string          `json:"unidade"`
	Tipo        string          `json:"tipo"`
	CustoPadrao decimal.Decimal `json:"custo_padrao"`
	Origem      string          `json:"origem"`
}

type InsumoListResponse struct {
	Data  []InsumoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
