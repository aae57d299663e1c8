package service

import (
	"context"
	"errors"
	"time"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"
	"github.com/HicaroDev/obra-vista-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrcamentoService exposes the issued-budget surface: reading an obra's
// orçamento and the template workflow (save-as-template / instantiate).
type OrcamentoService interface {
	ObterPorObra(ctx context.Context, obraID uuid.UUID) (*dto.OrcamentoResponse, error)
	ListarModelos(ctx context.Context) ([]dto.ModeloListItem, error)
	SalvarComoModelo(ctx context.Context, orcamentoID uuid.UUID, nome *string) (*dto.OrcamentoResponse, error)
	CriarDesdeModelo(ctx context.Context, obraID, modeloID uuid.UUID) (*dto.OrcamentoResponse, error)
}

type orcamentoService struct {
	repo repository.OrcamentoRepository
}

func NewOrcamentoService(repo repository.OrcamentoRepository) OrcamentoService {
	return &orcamentoService{repo: repo}
}

// destinoClone describes where a cloned orçamento lands: a reusable template
// (no obra) or a fresh obra budget.
type destinoClone struct {
	obraID     *uuid.UUID
	isTemplate bool
	nome       string
}

func (s *orcamentoService) ObterPorObra(ctx context.Context, obraID uuid.UUID) (*dto.OrcamentoResponse, error) {
	o, err := s.repo.ObterPorObra(ctx, obraID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return mapOrcamento(o), nil
}

func (s *orcamentoService) ListarModelos(ctx context.Context) ([]dto.ModeloListItem, error) {
	modelos, err := s.repo.ListarModelos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModeloListItem, 0, len(modelos))
	for _, m := range modelos {
		out = append(out, dto.ModeloListItem{
			ID:         m.ID.String(),
			Nome:       m.Nome,
			DataBase:   m.DataBase.Format("2006-01-02"),
			ValorTotal: m.ValorTotal,
			BDI:        m.BDI,
			TotalItens: len(m.Itens),
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *orcamentoService) SalvarComoModelo(ctx context.Context, orcamentoID uuid.UUID, nome *string) (*dto.OrcamentoResponse, error) {
	fonte, err := s.repo.ObterPorID(ctx, orcamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}

	nomeModelo := "Modelo — " + fonte.Nome
	if nome != nil && *nome != "" {
		nomeModelo = *nome
	}
	return s.clonar(ctx, fonte, destinoClone{isTemplate: true, nome: nomeModelo})
}

func (s *orcamentoService) CriarDesdeModelo(ctx context.Context, obraID, modeloID uuid.UUID) (*dto.OrcamentoResponse, error) {
	modelo, err := s.repo.ObterPorID(ctx, modeloID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	oid := obraID
	return s.clonar(ctx, modelo, destinoClone{obraID: &oid, nome: modelo.Nome})
}

// clonar is the single deep-copy primitive behind both template operations.
// Every item and every frozen snapshot row is copied with fresh ids; the
// copies share no links with the source, so the two budgets evolve
// independently from here on.
func (s *orcamentoService) clonar(ctx context.Context, fonte *model.Orcamento, destino destinoClone) (*dto.OrcamentoResponse, error) {
	novo := &model.Orcamento{
		ObraID:     destino.obraID,
		Nome:       destino.nome,
		DataBase:   fonte.DataBase,
		ValorTotal: fonte.ValorTotal,
		BDI:        fonte.BDI,
		IsTemplate: destino.isTemplate,
	}

	for _, item := range fonte.Itens {
		copia := model.OrcamentoItem{
			Ordem:            item.Ordem,
			WBS:              item.WBS,
			Codigo:           item.Codigo,
			Descricao:        item.Descricao,
			Unidade:          item.Unidade,
			Quantidade:       item.Quantidade,
			Tipo:             item.Tipo,
			ValorUnitario:    item.ValorUnitario,
			ValorTotal:       item.ValorTotal,
			CustoMaterial:    item.CustoMaterial,
			CustoMaoDeObra:   item.CustoMaoDeObra,
			CustoEquipamento: item.CustoEquipamento,
		}
		for _, ins := range item.Insumos {
			copia.Insumos = append(copia.Insumos, model.ComposicaoInsumo{
				Tipo:          ins.Tipo,
				Codigo:        ins.Codigo,
				Descricao:     ins.Descricao,
				Unidade:       ins.Unidade,
				Quantidade:    ins.Quantidade,
				CustoUnitario: ins.CustoUnitario,
				CustoTotal:    ins.CustoTotal,
			})
		}
		novo.Itens = append(novo.Itens, copia)
	}

	if err := s.repo.Criar(ctx, novo); err != nil {
		return nil, err
	}

	log.Info().
		Str("fonte_id", fonte.ID.String()).
		Str("novo_id", novo.ID.String()).
		Bool("template", destino.isTemplate).
		Int("itens", len(novo.Itens)).
		Msg("orçamento clonado")

	return mapOrcamento(novo), nil
}

func mapOrcamento(o *model.Orcamento) *dto.OrcamentoResponse {
	resp := &dto.OrcamentoResponse{
		ID:         o.ID.String(),
		Nome:       o.Nome,
		DataBase:   o.DataBase.Format("2006-01-02"),
		ValorTotal: o.ValorTotal,
		BDI:        o.BDI,
		IsTemplate: o.IsTemplate,
	}
	if o.ObraID != nil {
		obra := o.ObraID.String()
		resp.ObraID = &obra
	}
	for _, item := range o.Itens {
		ir := dto.OrcamentoItemResponse{
			ID:               item.ID.String(),
			WBS:              item.WBS,
			Codigo:           item.Codigo,
			Descricao:        item.Descricao,
			Unidade:          item.Unidade,
			Quantidade:       item.Quantidade,
			Tipo:             item.Tipo,
			ValorUnitario:    item.ValorUnitario,
			ValorTotal:       item.ValorTotal,
			CustoMaterial:    item.CustoMaterial,
			CustoMaoDeObra:   item.CustoMaoDeObra,
			CustoEquipamento: item.CustoEquipamento,
		}
		for _, ins := range item.Insumos {
			ir.Insumos = append(ir.Insumos, dto.ComposicaoInsumoResponse{
				ID:            ins.ID.String(),
				Tipo:          ins.Tipo,
				Codigo:        ins.Codigo,
				Descricao:     ins.Descricao,
				Unidade:       ins.Unidade,
				Quantidade:    ins.Quantidade,
				CustoUnitario: ins.CustoUnitario,
				CustoTotal:    ins.CustoTotal,
			})
		}
		resp.Itens = append(resp.Itens, ir)
	}
	return resp
}
