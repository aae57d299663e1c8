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

// InsumoService defines business operations over the catalog of primitive
// cost inputs.
type InsumoService interface {
	Criar(ctx context.Context, req dto.CriarInsumoRequest) (dto.InsumoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (dto.InsumoResponse, error)
	Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarInsumoRequest) (dto.InsumoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type insumoService struct {
	repo repository.InsumoRepository
}

func NewInsumoService(repo repository.InsumoRepository) InsumoService {
	return &insumoService{repo: repo}
}

func mapInsumo(i model.Insumo) dto.InsumoResponse {
	return dto.InsumoResponse{
		ID:          i.ID.String(),
		Codigo:      i.Codigo,
		Descricao:   i.Descricao,
		Unidade:     i.Unidade,
		Tipo:        i.Tipo,
		CustoPadrao: i.CustoPadrao,
		Origem:      i.Origem,
	}
}

func (s *insumoService) Criar(ctx context.Context, req dto.CriarInsumoRequest) (dto.InsumoResponse, error) {
	existente, err := s.repo.ObterPorCodigo(ctx, req.Codigo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.InsumoResponse{}, err
	}
	if existente != nil {
		return dto.InsumoResponse{}, ErrCodigoDuplicado
	}

	i := &model.Insumo{
		Codigo:      req.Codigo,
		Descricao:   req.Descricao,
		Unidade:     unidadeOuPadrao(req.Unidade),
		Tipo:        req.Tipo,
		CustoPadrao: req.CustoPadrao,
		Origem:      req.Origem,
	}
	if i.Tipo == "" {
		i.Tipo = model.InsumoMaterial
	}
	if i.Origem == "" {
		i.Origem = "proprio"
	}
	if err := s.repo.Criar(ctx, i); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.InsumoResponse{}, ErrCodigoDuplicado
		}
		return dto.InsumoResponse{}, err
	}
	return mapInsumo(*i), nil
}

func (s *insumoService) ObterPorID(ctx context.Context, id uuid.UUID) (dto.InsumoResponse, error) {
	i, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InsumoResponse{}, ErrNaoEncontrado
		}
		return dto.InsumoResponse{}, err
	}
	return mapInsumo(*i), nil
}

func (s *insumoService) Listar(ctx context.Context, filter dto.InsumoFilter) (*dto.InsumoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	insumos, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InsumoResponse, 0, len(insumos))
	for _, i := range insumos {
		data = append(data, mapInsumo(i))
	}
	return &dto.InsumoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *insumoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarInsumoRequest) (dto.InsumoResponse, error) {
	i, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InsumoResponse{}, ErrNaoEncontrado
		}
		return dto.InsumoResponse{}, err
	}

	if req.Descricao != nil {
		i.Descricao = *req.Descricao
	}
	if req.Unidade != nil {
		i.Unidade = *req.Unidade
	}
	if req.Tipo != nil {
		i.Tipo = *req.Tipo
	}
	if req.CustoPadrao != nil {
		i.CustoPadrao = *req.CustoPadrao
	}
	if req.Origem != nil {
		i.Origem = *req.Origem
	}

	if err := s.repo.Atualizar(ctx, i); err != nil {
		return dto.InsumoResponse{}, err
	}
	return mapInsumo(*i), nil
}

// Excluir rejects deletion while any composição edge still references the
// insumo, so the catalog never dangles.
func (s *insumoService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return err
	}
	refs, err := s.repo.ContarReferencias(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrInsumoEmUso
	}
	return s.repo.Excluir(ctx, id)
}
