package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de insumo reconhecidos pelo catálogo.
const (
	InsumoMaterial    = "material"
	InsumoMaoDeObra   = "mao_de_obra"
	InsumoEquipamento = "equipamento"
	InsumoServico     = "servico"
)

// Insumo is a primitive cost input of the catalog: material, labor,
// equipment or service, carrying a standard unit cost. Insumos are created
// lazily by spreadsheet imports (upsert-by-code) or directly via CRUD, and
// are never deleted while referenced by a ComposicaoItem.
type Insumo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string          `gorm:"uniqueIndex;not null"`
	Descricao   string          `gorm:"not null"`
	Unidade     string          `gorm:"not null;default:'un'"`
	Tipo        string          `gorm:"not null;default:'material'"`
	CustoPadrao decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	// Origem is a free-form provenance tag (e.g. "proprio", "sinapi").
	Origem    string `gorm:"not null;default:'proprio'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Insumo) TableName() string { return "insumos" }
