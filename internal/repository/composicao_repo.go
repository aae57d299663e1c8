package repository

import (
	"context"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComposicaoRepository defines the data access contract for catalog
// composições and their component edges.
type ComposicaoRepository interface {
	Criar(ctx context.Context, c *model.Composicao) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Composicao, error)
	ObterPorCodigo(ctx context.Context, codigo string) (*model.Composicao, error)
	Listar(ctx context.Context, filter dto.ComposicaoFilter) ([]model.Composicao, int64, error)
	Atualizar(ctx context.Context, c *model.Composicao) error
	Excluir(ctx context.Context, id uuid.UUID) error

	// SubstituirItens replaces the whole edge set of a composição:
	// delete all, insert all, inside one transaction.
	SubstituirItens(ctx context.Context, composicaoID uuid.UUID, itens []model.ComposicaoItem) error

	// ListarPais returns the composições that reference filhaID as a child
	// (reverse edges), so callers can assess deletion impact.
	ListarPais(ctx context.Context, filhaID uuid.UUID) ([]model.Composicao, error)

	// PaisDiretosIDs returns the parent composição ids of every edge whose
	// filha is in ids. Used by the cycle check's ancestor walk.
	PaisDiretosIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// Import path — run inside the caller's transaction.
	CriarSeAusenteTx(tx *gorm.DB, c *model.Composicao) error
	ExisteItemTx(tx *gorm.DB, composicaoID, insumoID uuid.UUID) (bool, error)
	CriarItemTx(tx *gorm.DB, item *model.ComposicaoItem) error

	// ObterPorCodigoComItensTx loads a composição with its edges and their
	// targets, for freezing snapshot rows onto budget lines.
	ObterPorCodigoComItensTx(tx *gorm.DB, codigo string) (*model.Composicao, error)

	DB() *gorm.DB
}

type composicaoRepo struct{ db *gorm.DB }

func NewComposicaoRepository(db *gorm.DB) ComposicaoRepository { return &composicaoRepo{db: db} }

// Criar persists the composição together with its edges in one transaction.
func (r *composicaoRepo) Criar(ctx context.Context, c *model.Composicao) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *composicaoRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Composicao, error) {
	var c model.Composicao
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Preload("Itens.Insumo").
		Preload("Itens.Filha").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *composicaoRepo) ObterPorCodigo(ctx context.Context, codigo string) (*model.Composicao, error) {
	var c model.Composicao
	err := r.db.WithContext(ctx).First(&c, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *composicaoRepo) Listar(ctx context.Context, filter dto.ComposicaoFilter) ([]model.Composicao, int64, error) {
	var composicoes []model.Composicao
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Composicao{})
	if filter.Busca != "" {
		busca := "%" + filter.Busca + "%"
		q = q.Where("codigo ILIKE ? OR descricao ILIKE ?", busca, busca)
	}
	if filter.Unidade != "" {
		q = q.Where("unidade = ?", filter.Unidade)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("codigo ASC").Limit(filter.Limit).Offset(offset).Find(&composicoes).Error
	return composicoes, total, err
}

func (r *composicaoRepo) Atualizar(ctx context.Context, c *model.Composicao) error {
	return r.db.WithContext(ctx).Omit("Itens").Save(c).Error
}

// Excluir removes the composição; its own outgoing edges go with it via FK
// cascade. The service guards against deleting a composição still referenced
// as filha by another one.
func (r *composicaoRepo) Excluir(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Composicao{}, "id = ?", id).Error
}

func (r *composicaoRepo) SubstituirItens(ctx context.Context, composicaoID uuid.UUID, itens []model.ComposicaoItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ComposicaoItem{}, "composicao_id = ?", composicaoID).Error; err != nil {
			return err
		}
		for i := range itens {
			itens[i].ComposicaoID = composicaoID
			if err := tx.Create(&itens[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *composicaoRepo) ListarPais(ctx context.Context, filhaID uuid.UUID) ([]model.Composicao, error) {
	var pais []model.Composicao
	err := r.db.WithContext(ctx).
		Joins("JOIN composicao_itens ci ON ci.composicao_id = composicoes.id").
		Where("ci.composicao_filha_id = ?", filhaID).
		Find(&pais).Error
	return pais, err
}

func (r *composicaoRepo) PaisDiretosIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pais []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ComposicaoItem{}).
		Where("composicao_filha_id IN ?", ids).
		Distinct().Pluck("composicao_id", &pais).Error
	return pais, err
}

func (r *composicaoRepo) CriarSeAusenteTx(tx *gorm.DB, c *model.Composicao) error {
	res := tx.Omit("Itens").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo"}},
		DoNothing: true,
	}).Create(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var existente model.Composicao
		if err := tx.First(&existente, "codigo = ?", c.Codigo).Error; err != nil {
			return err
		}
		*c = existente
	}
	return nil
}

func (r *composicaoRepo) ExisteItemTx(tx *gorm.DB, composicaoID, insumoID uuid.UUID) (bool, error) {
	var total int64
	err := tx.Model(&model.ComposicaoItem{}).
		Where("composicao_id = ? AND insumo_id = ?", composicaoID, insumoID).
		Count(&total).Error
	return total > 0, err
}

// CriarItemTx inserts the edge with ON CONFLICT DO NOTHING against the
// composite edge index, so a concurrent import racing past the ExisteItemTx
// read cannot duplicate the edge.
func (r *composicaoRepo) CriarItemTx(tx *gorm.DB, item *model.ComposicaoItem) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

func (r *composicaoRepo) ObterPorCodigoComItensTx(tx *gorm.DB, codigo string) (*model.Composicao, error) {
	var c model.Composicao
	err := tx.
		Preload("Itens").
		Preload("Itens.Insumo").
		Preload("Itens.Filha").
		First(&c, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *composicaoRepo) DB() *gorm.DB { return r.db }
