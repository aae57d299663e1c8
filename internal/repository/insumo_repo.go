package repository

import (
	"context"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsumoRepository defines the data access contract for catalog insumos.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type InsumoRepository interface {
	Criar(ctx context.Context, i *model.Insumo) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	ObterPorCodigo(ctx context.Context, codigo string) (*model.Insumo, error)
	Listar(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error)
	Atualizar(ctx context.Context, i *model.Insumo) error
	Excluir(ctx context.Context, id uuid.UUID) error

	// ContarReferencias counts composição edges pointing at this insumo —
	// an insumo with references must not be deleted.
	ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error)

	// CriarSeAusenteTx upserts by código inside the caller's transaction:
	// insert-if-absent, then load the existing row into i when the código was
	// already taken. Atomic, so concurrent imports never duplicate a código.
	CriarSeAusenteTx(tx *gorm.DB, i *model.Insumo) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) Criar(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *insumoRepo) ObterPorCodigo(ctx context.Context, codigo string) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *insumoRepo) Listar(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var insumos []model.Insumo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Insumo{})
	if filter.Busca != "" {
		busca := "%" + filter.Busca + "%"
		q = q.Where("codigo ILIKE ? OR descricao ILIKE ?", busca, busca)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("codigo ASC").Limit(filter.Limit).Offset(offset).Find(&insumos).Error
	return insumos, total, err
}

func (r *insumoRepo) Atualizar(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *insumoRepo) Excluir(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Insumo{}, "id = ?", id).Error
}

func (r *insumoRepo) ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ComposicaoItem{}).
		Where("insumo_id = ?", id).Count(&total).Error
	return total, err
}

func (r *insumoRepo) CriarSeAusenteTx(tx *gorm.DB, i *model.Insumo) error {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo"}},
		DoNothing: true,
	}).Create(i)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var existente model.Insumo
		if err := tx.First(&existente, "codigo = ?", i.Codigo).Error; err != nil {
			return err
		}
		*i = existente
	}
	return nil
}

func (r *insumoRepo) DB() *gorm.DB { return r.db }
