package service

import (
	"context"
	"errors"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"
	"github.com/HicaroDev/obra-vista-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComposicaoService defines business operations over the catalog of cost
// assemblies and their component edges.
type ComposicaoService interface {
	Criar(ctx context.Context, req dto.CriarComposicaoRequest) (dto.ComposicaoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (dto.ComposicaoResponse, error)
	Listar(ctx context.Context, filter dto.ComposicaoFilter) (*dto.ComposicaoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarComposicaoRequest) (dto.ComposicaoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type composicaoService struct {
	repo       repository.ComposicaoRepository
	insumoRepo repository.InsumoRepository
}

func NewComposicaoService(repo repository.ComposicaoRepository, insumoRepo repository.InsumoRepository) ComposicaoService {
	return &composicaoService{repo: repo, insumoRepo: insumoRepo}
}

func (s *composicaoService) Criar(ctx context.Context, req dto.CriarComposicaoRequest) (dto.ComposicaoResponse, error) {
	existente, err := s.repo.ObterPorCodigo(ctx, req.Codigo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ComposicaoResponse{}, err
	}
	if existente != nil {
		return dto.ComposicaoResponse{}, ErrCodigoDuplicado
	}

	itens, err := s.montarItens(ctx, uuid.Nil, req.Itens)
	if err != nil {
		return dto.ComposicaoResponse{}, err
	}

	c := &model.Composicao{
		Codigo:    req.Codigo,
		Descricao: req.Descricao,
		Unidade:   unidadeOuPadrao(req.Unidade),
		Tipo:      req.Tipo,
		Itens:     itens,
	}
	if c.Tipo == "" {
		c.Tipo = "proprio"
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ComposicaoResponse{}, ErrCodigoDuplicado
		}
		return dto.ComposicaoResponse{}, err
	}
	return s.Obter(ctx, c.ID)
}

// Obter returns the assembly with its edges resolved to their targets and
// the reverse "usada em" list.
func (s *composicaoService) Obter(ctx context.Context, id uuid.UUID) (dto.ComposicaoResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComposicaoResponse{}, ErrNaoEncontrado
		}
		return dto.ComposicaoResponse{}, err
	}

	pais, err := s.repo.ListarPais(ctx, id)
	if err != nil {
		return dto.ComposicaoResponse{}, err
	}

	resp := dto.ComposicaoResponse{
		ID:        c.ID.String(),
		Codigo:    c.Codigo,
		Descricao: c.Descricao,
		Unidade:   c.Unidade,
		Tipo:      c.Tipo,
	}
	for _, item := range c.Itens {
		ir := dto.ItemComposicaoResponse{
			ID:          item.ID.String(),
			Coeficiente: item.Coeficiente,
		}
		switch {
		case item.Insumo != nil:
			ir.TipoComponente = "insumo"
			ir.ComponenteID = item.Insumo.ID.String()
			ir.Codigo = item.Insumo.Codigo
			ir.Descricao = item.Insumo.Descricao
			ir.Unidade = item.Insumo.Unidade
		case item.Filha != nil:
			ir.TipoComponente = "composicao"
			ir.ComponenteID = item.Filha.ID.String()
			ir.Codigo = item.Filha.Codigo
			ir.Descricao = item.Filha.Descricao
			ir.Unidade = item.Filha.Unidade
		}
		resp.Itens = append(resp.Itens, ir)
	}
	for _, p := range pais {
		resp.UsadaEm = append(resp.UsadaEm, dto.ComposicaoRefResponse{
			ID:        p.ID.String(),
			Codigo:    p.Codigo,
			Descricao: p.Descricao,
		})
	}
	return resp, nil
}

func (s *composicaoService) Listar(ctx context.Context, filter dto.ComposicaoFilter) (*dto.ComposicaoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	composicoes, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ComposicaoResponse, 0, len(composicoes))
	for _, c := range composicoes {
		data = append(data, dto.ComposicaoResponse{
			ID:        c.ID.String(),
			Codigo:    c.Codigo,
			Descricao: c.Descricao,
			Unidade:   c.Unidade,
			Tipo:      c.Tipo,
		})
	}
	return &dto.ComposicaoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Atualizar updates scalar fields in place. When Itens is supplied the edge
// set is fully replaced — delete all, insert all, one transaction. Edges are
// derived data, so losing their identity across edits is acceptable.
func (s *composicaoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarComposicaoRequest) (dto.ComposicaoResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComposicaoResponse{}, ErrNaoEncontrado
		}
		return dto.ComposicaoResponse{}, err
	}

	if req.Descricao != nil {
		c.Descricao = *req.Descricao
	}
	if req.Unidade != nil {
		c.Unidade = *req.Unidade
	}
	if req.Tipo != nil {
		c.Tipo = *req.Tipo
	}
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return dto.ComposicaoResponse{}, err
	}

	if req.Itens != nil {
		itens, err := s.montarItens(ctx, id, *req.Itens)
		if err != nil {
			return dto.ComposicaoResponse{}, err
		}
		if err := s.repo.SubstituirItens(ctx, id, itens); err != nil {
			return dto.ComposicaoResponse{}, err
		}
	}
	return s.Obter(ctx, id)
}

// Excluir removes the assembly. Deletion is rejected while other assemblies
// still reference this one as a child — a dropped composição must never leave
// dangling edges behind.
func (s *composicaoService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return err
	}
	pais, err := s.repo.ListarPais(ctx, id)
	if err != nil {
		return err
	}
	if len(pais) > 0 {
		return ErrComposicaoEmUso
	}
	return s.repo.Excluir(ctx, id)
}

// montarItens validates the requested edges (XOR invariant, existing targets,
// positive coefficient, acyclic graph) and converts them to models.
// composicaoID is uuid.Nil when the parent is being created — a fresh
// assembly cannot be part of any cycle yet.
func (s *composicaoService) montarItens(ctx context.Context, composicaoID uuid.UUID, itens []dto.ItemComposicaoRequest) ([]model.ComposicaoItem, error) {
	out := make([]model.ComposicaoItem, 0, len(itens))
	for _, item := range itens {
		if (item.InsumoID == nil) == (item.ComposicaoFilhaID == nil) {
			return nil, ErrItemInvalido
		}
		if !item.Coeficiente.IsPositive() {
			return nil, ErrItemInvalido
		}

		edge := model.ComposicaoItem{Coeficiente: item.Coeficiente}

		if item.InsumoID != nil {
			iid, err := uuid.Parse(*item.InsumoID)
			if err != nil {
				return nil, ErrItemInvalido
			}
			if _, err := s.insumoRepo.ObterPorID(ctx, iid); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNaoEncontrado
				}
				return nil, err
			}
			edge.InsumoID = &iid
		} else {
			fid, err := uuid.Parse(*item.ComposicaoFilhaID)
			if err != nil {
				return nil, ErrItemInvalido
			}
			if _, err := s.repo.ObterPorID(ctx, fid); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNaoEncontrado
				}
				return nil, err
			}
			if composicaoID != uuid.Nil {
				if err := s.verificarCiclo(ctx, composicaoID, fid); err != nil {
					return nil, err
				}
			}
			edge.ComposicaoFilhaID = &fid
		}
		out = append(out, edge)
	}
	return out, nil
}

// verificarCiclo rejects an edge composição→filha that would make the graph
// cyclic. Walks the ancestor set of the parent through reverse edges: the
// edge closes a cycle exactly when the filha already contains the parent,
// i.e. when filha is the parent itself or one of its ancestors.
func (s *composicaoService) verificarCiclo(ctx context.Context, composicaoID, filhaID uuid.UUID) error {
	if composicaoID == filhaID {
		return ErrCicloDetectado
	}

	visitados := map[uuid.UUID]bool{composicaoID: true}
	fronteira := []uuid.UUID{composicaoID}

	for len(fronteira) > 0 {
		pais, err := s.repo.PaisDiretosIDs(ctx, fronteira)
		if err != nil {
			return err
		}
		fronteira = fronteira[:0]
		for _, p := range pais {
			if p == filhaID {
				return ErrCicloDetectado
			}
			if !visitados[p] {
				visitados[p] = true
				fronteira = append(fronteira, p)
			}
		}
	}
	return nil
}
