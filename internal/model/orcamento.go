package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de linha de orçamento.
const (
	ItemEtapa      = "etapa"
	ItemComposicao = "composicao"
)

// Orcamento is a dated collection of priced/organizational lines, scoped to
// one obra — or to none when it is a reusable template. Invariant:
// ObraID == nil ⇔ IsTemplate == true. Under the replace-on-reimport policy
// an obra holds at most one non-template orçamento at a time.
type Orcamento struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ObraID     *uuid.UUID `gorm:"type:uuid;index"`
	Nome       string     `gorm:"not null"`
	DataBase   time.Time  `gorm:"not null"`
	ValorTotal decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// BDI is the aggregate markup derived from (venda / custo − 1) × 100.
	BDI        decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	IsTemplate bool            `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Itens []OrcamentoItem `gorm:"foreignKey:OrcamentoID;constraint:OnDelete:CASCADE"`
}

func (Orcamento) TableName() string { return "orcamentos" }

// OrcamentoItem is one line of an orçamento. Lines with a código are priced
// composições; lines without one are "etapa" header rows that only organize
// the work breakdown.
type OrcamentoItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrcamentoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Ordem preserves the spreadsheet row order for display.
	Ordem       int    `gorm:"not null;default:0"`
	WBS         string
	Codigo      string
	Descricao   string `gorm:"not null"`
	Unidade     string
	Quantidade  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	Tipo        string          `gorm:"not null;default:'composicao'"`
	ValorUnitario    decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	ValorTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CustoMaterial    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CustoMaoDeObra   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CustoEquipamento decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt        time.Time

	Insumos []ComposicaoInsumo `gorm:"foreignKey:OrcamentoItemID;constraint:OnDelete:CASCADE"`
}

func (OrcamentoItem) TableName() string { return "orcamento_itens" }

// ComposicaoInsumo is the frozen snapshot of a catalog component at import
// time, owned entirely by its OrcamentoItem. It deliberately carries no
// foreign key into the live catalog so later catalog edits never alter a
// previously issued orçamento.
type ComposicaoInsumo struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrcamentoItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo            string
	Codigo          string
	Descricao       string
	Unidade         string
	Quantidade    decimal.Decimal `gorm:"type:decimal(14,6);not null;default:0"`
	CustoUnitario decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	CustoTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

func (ComposicaoInsumo) TableName() string { return "composicao_insumos" }
