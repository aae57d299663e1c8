package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemComposicaoRequest describes one component edge. Exactly one of
// InsumoID / ComposicaoFilhaID must be set.
type ItemComposicaoRequest struct {
	InsumoID          *string         `json:"insumo_id"           validate:"omitempty,uuid"`
	ComposicaoFilhaID *string         `json:"composicao_filha_id" validate:"omitempty,uuid"`
	Coeficiente       decimal.Decimal `json:"coeficiente"         validate:"required"`
}

type CriarComposicaoRequest struct {
	Codigo    string                  `json:"codigo"    validate:"required,min=1,max=40"`
	Descricao string                  `json:"descricao" validate:"required,min=2,max=200"`
	Unidade   string                  `json:"unidade"`
	Tipo      string                  `json:"tipo"`
	Itens     []ItemComposicaoRequest `json:"itens"     validate:"dive"`
}

// AtualizarComposicaoRequest updates scalar fields in place. When Itens is
// present it is a full replace of the component edge set.
type AtualizarComposicaoRequest struct {
	Descricao *string                  `json:"descricao" validate:"omitempty,min=2,max=200"`
	Unidade   *string                  `json:"unidade"`
	Tipo      *string                  `json:"tipo"`
	Itens     *[]ItemComposicaoRequest `json:"itens"     validate:"omitempty,dive"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ComposicaoFilter struct {
	Busca   string `form:"busca"`
	Unidade string `form:"unidade"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ItemComposicaoResponse is a component edge resolved to its target —
// either an insumo or a child composição.
type ItemComposicaoResponse struct {
	ID             string          `json:"id"`
	TipoComponente string          `json:"tipo_componente"` // "insumo" | "composicao"
	ComponenteID   string          `json:"componente_id"`
	Codigo         string          `json:"codigo"`
	Descricao      string          `json:"descricao"`
	Unidade        string          `json:"unidade"`
	Coeficiente    decimal.Decimal `json:"coeficiente"`
}

// ComposicaoRefResponse is a shallow reference to a composição, used for the
// "usada em" reverse-edge list so an operator can assess deletion impact.
type ComposicaoRefResponse struct {
	ID        string `json:"id"`
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

type ComposicaoResponse struct {
	ID        string                   `json:"id"`
	Codigo    string                   `json:"codigo"`
	Descricao string                   `json:"descricao"`
	Unidade   string                   `json:"unidade"`
	Tipo      string                   `json:"tipo"`
	Itens     []ItemComposicaoResponse `json:"itens,omitempty"`
	UsadaEm   []ComposicaoRefResponse  `json:"usada_em,omitempty"`
}

type ComposicaoListResponse struct {
	Data  []ComposicaoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
