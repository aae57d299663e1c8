package service

import (
	"context"
	"testing"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarInsumo_AplicaPadroes(t *testing.T) {
	repo := newStubInsumoRepo()
	svc := NewInsumoService(repo)

	resp, err := svc.Criar(context.Background(), dto.CriarInsumoRequest{
		Codigo:    "INS-01",
		Descricao: "Cimento Portland CP-II",
	})
	require.NoError(t, err)
	assert.Equal(t, "material", resp.Tipo)
	assert.Equal(t, "un", resp.Unidade)
	assert.Equal(t, "proprio", resp.Origem)
	assert.True(t, resp.CustoPadrao.IsZero())
}

func TestCriarInsumo_CodigoDuplicado(t *testing.T) {
	repo := newStubInsumoRepo()
	svc := NewInsumoService(repo)
	seedInsumo(repo, "INS-01", "Cimento Portland", "material", 38.90)

	_, err := svc.Criar(context.Background(), dto.CriarInsumoRequest{
		Codigo:    "INS-01",
		Descricao: "Outro cimento",
	})
	assert.ErrorIs(t, err, ErrCodigoDuplicado)
}

func TestAtualizarInsumo_CamposParciais(t *testing.T) {
	repo := newStubInsumoRepo()
	svc := NewInsumoService(repo)
	i := seedInsumo(repo, "INS-01", "Cimento Portland", "material", 38.90)

	custo := decimal.NewFromFloat(42.50)
	resp, err := svc.Atualizar(context.Background(), i.ID, dto.AtualizarInsumoRequest{
		CustoPadrao: &custo,
	})
	require.NoError(t, err)

	// Only the supplied field changes.
	assert.Equal(t, "42.5", resp.CustoPadrao.String())
	assert.Equal(t, "Cimento Portland", resp.Descricao)
	assert.Equal(t, "material", resp.Tipo)
}

func TestExcluirInsumo_EmUso(t *testing.T) {
	insumoRepo := newStubInsumoRepo()
	composicaoRepo := newStubComposicaoRepo(insumoRepo)
	svc := NewInsumoService(insumoRepo)

	cimento := seedInsumo(insumoRepo, "INS-01", "Cimento Portland", "material", 38.90)
	livre := seedInsumo(insumoRepo, "INS-02", "Areia média", "material", 120)
	cid := cimento.ID
	seedComposicao(composicaoRepo, "COMP-01", "Concreto",
		model.ComposicaoItem{InsumoID: &cid, Coeficiente: decimal.NewFromInt(7)},
	)

	err := svc.Excluir(context.Background(), cimento.ID)
	assert.ErrorIs(t, err, ErrInsumoEmUso)

	require.NoError(t, svc.Excluir(context.Background(), livre.ID))
	_, err = svc.ObterPorID(context.Background(), livre.ID)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestListarInsumos_FiltroEBusca(t *testing.T) {
	repo := newStubInsumoRepo()
	svc := NewInsumoService(repo)
	seedInsumo(repo, "INS-01", "Cimento Portland", "material", 38.90)
	seedInsumo(repo, "INS-02", "Pedreiro", "mao_de_obra", 28.50)
	seedInsumo(repo, "INS-03", "Areia média", "material", 120)

	lista, err := svc.Listar(context.Background(), dto.InsumoFilter{Tipo: "material"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), lista.Total)

	lista, err = svc.Listar(context.Background(), dto.InsumoFilter{Busca: "cimento"})
	require.NoError(t, err)
	require.Equal(t, int64(1), lista.Total)
	assert.Equal(t, "INS-01", lista.Data[0].Codigo)
}
