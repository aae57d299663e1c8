package repository

import (
	"context"

	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrcamentoRepository defines the data access contract for orçamentos, their
// line items and the frozen snapshot rows.
type OrcamentoRepository interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Orcamento, error)

	// ObterPorObra returns the current non-template orçamento of an obra,
	// with items and snapshots.
	ObterPorObra(ctx context.Context, obraID uuid.UUID) (*model.Orcamento, error)

	// ListarModelos returns every template orçamento, most recent first.
	ListarModelos(ctx context.Context) ([]model.Orcamento, error)

	// Criar persists the orçamento with any pre-built items and snapshots
	// in one transaction (used by the clone primitive).
	Criar(ctx context.Context, o *model.Orcamento) error

	// Import path — run inside the caller's transaction.
	ExcluirPorObraTx(tx *gorm.DB, obraID uuid.UUID) error
	CriarTx(tx *gorm.DB, o *model.Orcamento) error
	CriarItemTx(tx *gorm.DB, item *model.OrcamentoItem) error
	AtualizarTotaisTx(tx *gorm.DB, id uuid.UUID, valorTotal, bdi decimal.Decimal) error

	DB() *gorm.DB
}

type orcamentoRepo struct{ db *gorm.DB }

func NewOrcamentoRepository(db *gorm.DB) OrcamentoRepository { return &orcamentoRepo{db: db} }

func preloadItens(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC") }).
		Preload("Itens.Insumos")
}

func (r *orcamentoRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Orcamento, error) {
	var o model.Orcamento
	err := preloadItens(r.db.WithContext(ctx)).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orcamentoRepo) ObterPorObra(ctx context.Context, obraID uuid.UUID) (*model.Orcamento, error) {
	var o model.Orcamento
	err := preloadItens(r.db.WithContext(ctx)).
		Where("obra_id = ? AND is_template = false", obraID).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orcamentoRepo) ListarModelos(ctx context.Context) ([]model.Orcamento, error) {
	var modelos []model.Orcamento
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Where("is_template = true").
		Order("created_at DESC").
		Find(&modelos).Error
	return modelos, err
}

func (r *orcamentoRepo) Criar(ctx context.Context, o *model.Orcamento) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// ExcluirPorObraTx drops every orçamento of the obra; items and snapshots
// fall with it through the FK cascade.
func (r *orcamentoRepo) ExcluirPorObraTx(tx *gorm.DB, obraID uuid.UUID) error {
	return tx.Delete(&model.Orcamento{}, "obra_id = ?", obraID).Error
}

func (r *orcamentoRepo) CriarTx(tx *gorm.DB, o *model.Orcamento) error {
	return tx.Create(o).Error
}

func (r *orcamentoRepo) CriarItemTx(tx *gorm.DB, item *model.OrcamentoItem) error {
	return tx.Create(item).Error
}

func (r *orcamentoRepo) AtualizarTotaisTx(tx *gorm.DB, id uuid.UUID, valorTotal, bdi decimal.Decimal) error {
	return tx.Model(&model.Orcamento{}).Where("id = ?", id).Updates(map[string]interface{}{
		"valor_total": valorTotal,
		"bdi":         bdi,
	}).Error
}

func (r *orcamentoRepo) DB() *gorm.DB { return r.db }
