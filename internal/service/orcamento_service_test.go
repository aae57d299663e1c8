package service

import (
	"context"
	"testing"
	"time"

	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrcamento(repo *stubOrcamentoRepo, obraID *uuid.UUID, nome string, isTemplate bool) *model.Orcamento {
	o := &model.Orcamento{
		ObraID:     obraID,
		Nome:       nome,
		DataBase:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValorTotal: dec("120000"),
		BDI:        dec("20"),
		IsTemplate: isTemplate,
		Itens: []model.OrcamentoItem{
			{
				Ordem: 0, WBS: "01", Tipo: model.ItemEtapa, Descricao: "Fundações",
			},
			{
				Ordem: 1, WBS: "01.01", Tipo: model.ItemComposicao,
				Codigo: "COMP-01", Descricao: "Estaca hélice contínua", Unidade: "m",
				Quantidade: dec("100"), ValorUnitario: dec("500"), ValorTotal: dec("60000"),
				CustoMaterial: dec("30000"), CustoMaoDeObra: dec("15000"), CustoEquipamento: dec("5000"),
				Insumos: []model.ComposicaoInsumo{
					{
						Tipo: "material", Codigo: "INS-01", Descricao: "Concreto usinado",
						Unidade: "m3", Quantidade: dec("0.12"),
						CustoUnitario: dec("450"), CustoTotal: dec("54"),
					},
				},
			},
			{
				Ordem: 2, WBS: "01.02", Tipo: model.ItemComposicao,
				Codigo: "COMP-02", Descricao: "Bloco de coroamento", Unidade: "m3",
				Quantidade: dec("40"), ValorUnitario: dec("1500"), ValorTotal: dec("60000"),
			},
		},
	}
	repo.guardar(o)
	return o
}

func TestSalvarComoModelo_CopiaProfunda(t *testing.T) {
	repo := newStubOrcamentoRepo()
	svc := NewOrcamentoService(repo)
	obraID := uuid.New()
	fonte := seedOrcamento(repo, &obraID, "Orçamento importado", false)

	resp, err := svc.SalvarComoModelo(context.Background(), fonte.ID, nil)
	require.NoError(t, err)

	// A template has no obra and a fresh identity.
	assert.True(t, resp.IsTemplate)
	assert.Nil(t, resp.ObraID)
	assert.NotEqual(t, fonte.ID.String(), resp.ID)
	assert.Equal(t, "Modelo — Orçamento importado", resp.Nome)
	assert.Equal(t, "120000", resp.ValorTotal.String())
	assert.Equal(t, "20", resp.BDI.String())

	require.Len(t, resp.Itens, 3)
	for idx, item := range resp.Itens {
		assert.NotEqual(t, fonte.Itens[idx].ID.String(), item.ID, "item %d deve ter id novo", idx)
		assert.Equal(t, fonte.Itens[idx].Codigo, item.Codigo)
		assert.Equal(t, fonte.Itens[idx].Descricao, item.Descricao)
		assert.Equal(t, fonte.Itens[idx].ValorTotal.String(), item.ValorTotal.String())
	}

	// Frozen snapshots travel with the copy.
	require.Len(t, resp.Itens[1].Insumos, 1)
	assert.Equal(t, "INS-01", resp.Itens[1].Insumos[0].Codigo)
	assert.Equal(t, "54", resp.Itens[1].Insumos[0].CustoTotal.String())
	assert.NotEqual(t, fonte.Itens[1].Insumos[0].ID.String(), resp.Itens[1].Insumos[0].ID)
}

func TestSalvarComoModelo_NomeCustomizado(t *testing.T) {
	repo := newStubOrcamentoRepo()
	svc := NewOrcamentoService(repo)
	obraID := uuid.New()
	fonte := seedOrcamento(repo, &obraID, "Orçamento importado", false)

	nome := "Residencial padrão 2026"
	resp, err := svc.SalvarComoModelo(context.Background(), fonte.ID, &nome)
	require.NoError(t, err)
	assert.Equal(t, nome, resp.Nome)
}

func TestSalvarComoModelo_NaoEncontrado(t *testing.T) {
	repo := newStubOrcamentoRepo()
	svc := NewOrcamentoService(repo)

	_, err := svc.SalvarComoModelo(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestCriarDesdeModelo_IndependenciaDoClone(t *testing.T) {
	repo := newStubOrcamentoRepo()
	svc := NewOrcamentoService(repo)
	modelo := seedOrcamento(repo, nil, "Residencial padrão", true)

	obraID := uuid.New()
	resp, err := svc.CriarDesdeModelo(context.Background(), obraID, modelo.ID)
	require.NoError(t, err)

	assert.False(t, resp.IsTemplate)
	require.NotNil(t, resp.ObraID)
	assert.Equal(t, obraID.String(), *resp.ObraID)
	assert.Equal(t, "Residencial padrão", resp.Nome)
	require.Len(t, resp.Itens, 3)

	// Mutating the clone must not touch the template.
	clone := repo.orcamentos[uuid.MustParse(resp.ID)]
	clone.Itens[1].Descricao = "alterada"
	assert.Equal(t, "Estaca hélice contínua", modelo.Itens[1].Descricao)
}

func TestListarModelos(t *testing.T) {
	repo := newStubOrcamentoRepo()
	svc := NewOrcamentoService(repo)
	obraID := uuid.New()
	seedOrcamento(repo, &obraID, "Orçamento da obra", false)
	antigo := seedOrcamento(repo, nil, "Modelo antigo", true)
	recente := seedOrcamento(repo, nil, "Modelo recente", true)

	modelos, err := svc.ListarModelos(context.Background())
	require.NoError(t, err)
	require.Len(t, modelos, 2)

	// Most recent first; obra budgets never leak into the template list.
	assert.Equal(t, recente.ID.String(), modelos[0].ID)
	assert.Equal(t, antigo.ID.String(), modelos[1].ID)
	assert.Equal(t, 3, modelos[0].TotalItens)
	assert.Equal(t, "120000", modelos[0].ValorTotal.String())
}
