package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Composicao is a reusable cost assembly: one unit of output built from
// weighted inputs. Inputs are either Insumos or other Composições, linked
// through ComposicaoItem edges, so the catalog forms a recursive bill of
// materials. The edge graph must stay acyclic — a composição can never
// transitively contain itself (enforced at edge-write time by the service).
type Composicao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Descricao string    `gorm:"not null"`
	Unidade   string    `gorm:"not null;default:'un'"`
	// Tipo is a provenance tag, not a classification (e.g. "proprio").
	Tipo      string `gorm:"not null;default:'proprio'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Itens []ComposicaoItem `gorm:"foreignKey:ComposicaoID;constraint:OnDelete:CASCADE"`
}

func (Composicao) TableName() string { return "composicoes" }

// ComposicaoItem is one edge of the bill-of-materials graph: parent
// composição ↔ component, weighted by Coeficiente (quantity of the input
// per unit of parent output). Exactly one of InsumoID / ComposicaoFilhaID
// must be set — never both, never neither. The composite unique index on
// (composicao_id, insumo_id, composicao_filha_id) pins edge identity so
// concurrent imports cannot insert the same edge twice.
type ComposicaoItem struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComposicaoID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:ux_composicao_item_alvo"`
	InsumoID          *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_composicao_item_alvo"`
	ComposicaoFilhaID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_composicao_item_alvo"`
	Coeficiente       decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	CreatedAt         time.Time

	Insumo *Insumo     `gorm:"foreignKey:InsumoID"`
	Filha  *Composicao `gorm:"foreignKey:ComposicaoFilhaID"`
}

func (ComposicaoItem) TableName() string { return "composicao_itens" }
