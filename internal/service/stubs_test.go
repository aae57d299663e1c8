package service

import (
	"context"
	"sort"
	"strings"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"
	"github.com/HicaroDev/obra-vista-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubInsumoRepo is an in-memory InsumoRepository for testing. When comps is
// set, ContarReferencias scans its edges, mirroring the real query.
type stubInsumoRepo struct {
	insumos map[uuid.UUID]*model.Insumo
	comps   *stubComposicaoRepo
}

func newStubInsumoRepo() *stubInsumoRepo {
	return &stubInsumoRepo{insumos: make(map[uuid.UUID]*model.Insumo)}
}

func (r *stubInsumoRepo) porCodigo(codigo string) *model.Insumo {
	for _, i := range r.insumos {
		if i.Codigo == codigo {
			return i
		}
	}
	return nil
}

func (r *stubInsumoRepo) Criar(_ context.Context, i *model.Insumo) error {
	if r.porCodigo(i.Codigo) != nil {
		return gorm.ErrDuplicatedKey
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.insumos[i.ID] = i
	return nil
}

func (r *stubInsumoRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubInsumoRepo) ObterPorCodigo(_ context.Context, codigo string) (*model.Insumo, error) {
	if i := r.porCodigo(codigo); i != nil {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInsumoRepo) Listar(_ context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var out []model.Insumo
	for _, i := range r.insumos {
		if filter.Tipo != "" && i.Tipo != filter.Tipo {
			continue
		}
		if filter.Busca != "" {
			b := strings.ToLower(filter.Busca)
			if !strings.Contains(strings.ToLower(i.Codigo), b) &&
				!strings.Contains(strings.ToLower(i.Descricao), b) {
				continue
			}
		}
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Codigo < out[b].Codigo })
	return out, int64(len(out)), nil
}

func (r *stubInsumoRepo) Atualizar(_ context.Context, i *model.Insumo) error {
	r.insumos[i.ID] = i
	return nil
}

func (r *stubInsumoRepo) Excluir(_ context.Context, id uuid.UUID) error {
	delete(r.insumos, id)
	return nil
}

func (r *stubInsumoRepo) ContarReferencias(_ context.Context, id uuid.UUID) (int64, error) {
	if r.comps == nil {
		return 0, nil
	}
	var total int64
	for _, c := range r.comps.composicoes {
		for _, item := range c.Itens {
			if item.InsumoID != nil && *item.InsumoID == id {
				total++
			}
		}
	}
	return total, nil
}

func (r *stubInsumoRepo) CriarSeAusenteTx(_ *gorm.DB, i *model.Insumo) error {
	if existente := r.porCodigo(i.Codigo); existente != nil {
		*i = *existente
		return nil
	}
	i.ID = uuid.New()
	r.insumos[i.ID] = i
	return nil
}

func (r *stubInsumoRepo) DB() *gorm.DB { return nil }

var _ repository.InsumoRepository = (*stubInsumoRepo)(nil)

// stubComposicaoRepo holds composições with their edges and resolves the
// Insumo/Filha preloads against the shared stubInsumoRepo.
type stubComposicaoRepo struct {
	composicoes map[uuid.UUID]*model.Composicao
	insumoRepo  *stubInsumoRepo
}

func newStubComposicaoRepo(insumoRepo *stubInsumoRepo) *stubComposicaoRepo {
	r := &stubComposicaoRepo{
		composicoes: make(map[uuid.UUID]*model.Composicao),
		insumoRepo:  insumoRepo,
	}
	if insumoRepo != nil {
		insumoRepo.comps = r
	}
	return r
}

func (r *stubComposicaoRepo) porCodigo(codigo string) *model.Composicao {
	for _, c := range r.composicoes {
		if c.Codigo == codigo {
			return c
		}
	}
	return nil
}

func (r *stubComposicaoRepo) Criar(_ context.Context, c *model.Composicao) error {
	if r.porCodigo(c.Codigo) != nil {
		return gorm.ErrDuplicatedKey
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Itens {
		c.Itens[i].ID = uuid.New()
		c.Itens[i].ComposicaoID = c.ID
	}
	r.composicoes[c.ID] = c
	return nil
}

func (r *stubComposicaoRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Composicao, error) {
	c, ok := r.composicoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	copia.Itens = make([]model.ComposicaoItem, len(c.Itens))
	for i, item := range c.Itens {
		if item.InsumoID != nil && r.insumoRepo != nil {
			item.Insumo = r.insumoRepo.insumos[*item.InsumoID]
		}
		if item.ComposicaoFilhaID != nil {
			item.Filha = r.composicoes[*item.ComposicaoFilhaID]
		}
		copia.Itens[i] = item
	}
	return &copia, nil
}

func (r *stubComposicaoRepo) ObterPorCodigo(_ context.Context, codigo string) (*model.Composicao, error) {
	if c := r.porCodigo(codigo); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubComposicaoRepo) Listar(_ context.Context, filter dto.ComposicaoFilter) ([]model.Composicao, int64, error) {
	var out []model.Composicao
	for _, c := range r.composicoes {
		if filter.Unidade != "" && c.Unidade != filter.Unidade {
			continue
		}
		if filter.Busca != "" {
			b := strings.ToLower(filter.Busca)
			if !strings.Contains(strings.ToLower(c.Codigo), b) &&
				!strings.Contains(strings.ToLower(c.Descricao), b) {
				continue
			}
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Codigo < out[b].Codigo })
	return out, int64(len(out)), nil
}

func (r *stubComposicaoRepo) Atualizar(_ context.Context, c *model.Composicao) error {
	atual, ok := r.composicoes[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Itens = atual.Itens
	r.composicoes[c.ID] = c
	return nil
}

func (r *stubComposicaoRepo) Excluir(_ context.Context, id uuid.UUID) error {
	delete(r.composicoes, id)
	return nil
}

func (r *stubComposicaoRepo) SubstituirItens(_ context.Context, composicaoID uuid.UUID, itens []model.ComposicaoItem) error {
	c, ok := r.composicoes[composicaoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Itens = nil
	for _, item := range itens {
		item.ID = uuid.New()
		item.ComposicaoID = composicaoID
		c.Itens = append(c.Itens, item)
	}
	return nil
}

func (r *stubComposicaoRepo) ListarPais(_ context.Context, filhaID uuid.UUID) ([]model.Composicao, error) {
	var pais []model.Composicao
	for _, c := range r.composicoes {
		for _, item := range c.Itens {
			if item.ComposicaoFilhaID != nil && *item.ComposicaoFilhaID == filhaID {
				pais = append(pais, *c)
				break
			}
		}
	}
	return pais, nil
}

func (r *stubComposicaoRepo) PaisDiretosIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	filhas := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		filhas[id] = true
	}
	vistos := make(map[uuid.UUID]bool)
	var pais []uuid.UUID
	for _, c := range r.composicoes {
		for _, item := range c.Itens {
			if item.ComposicaoFilhaID != nil && filhas[*item.ComposicaoFilhaID] && !vistos[c.ID] {
				vistos[c.ID] = true
				pais = append(pais, c.ID)
			}
		}
	}
	return pais, nil
}

func (r *stubComposicaoRepo) CriarSeAusenteTx(_ *gorm.DB, c *model.Composicao) error {
	if existente := r.porCodigo(c.Codigo); existente != nil {
		*c = *existente
		return nil
	}
	c.ID = uuid.New()
	r.composicoes[c.ID] = c
	return nil
}

func (r *stubComposicaoRepo) ExisteItemTx(_ *gorm.DB, composicaoID, insumoID uuid.UUID) (bool, error) {
	c, ok := r.composicoes[composicaoID]
	if !ok {
		return false, nil
	}
	for _, item := range c.Itens {
		if item.InsumoID != nil && *item.InsumoID == insumoID {
			return true, nil
		}
	}
	return false, nil
}

// CriarItemTx mirrors the repo's ON CONFLICT DO NOTHING: a duplicate edge is
// silently skipped.
func (r *stubComposicaoRepo) CriarItemTx(_ *gorm.DB, item *model.ComposicaoItem) error {
	c, ok := r.composicoes[item.ComposicaoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existente := range c.Itens {
		mesmoInsumo := existente.InsumoID != nil && item.InsumoID != nil && *existente.InsumoID == *item.InsumoID
		mesmaFilha := existente.ComposicaoFilhaID != nil && item.ComposicaoFilhaID != nil && *existente.ComposicaoFilhaID == *item.ComposicaoFilhaID
		if mesmoInsumo || mesmaFilha {
			return nil
		}
	}
	item.ID = uuid.New()
	c.Itens = append(c.Itens, *item)
	return nil
}

func (r *stubComposicaoRepo) ObterPorCodigoComItensTx(_ *gorm.DB, codigo string) (*model.Composicao, error) {
	c := r.porCodigo(codigo)
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.ObterPorID(context.Background(), c.ID)
}

func (r *stubComposicaoRepo) DB() *gorm.DB { return nil }

var _ repository.ComposicaoRepository = (*stubComposicaoRepo)(nil)

// stubOrcamentoRepo is an in-memory OrcamentoRepository. Creation order is
// tracked in ordemCria, so latest-first listings are deterministic without
// relying on CreatedAt timestamps.
type stubOrcamentoRepo struct {
	orcamentos map[uuid.UUID]*model.Orcamento
	ordemCria  []uuid.UUID
}

func newStubOrcamentoRepo() *stubOrcamentoRepo {
	return &stubOrcamentoRepo{orcamentos: make(map[uuid.UUID]*model.Orcamento)}
}

func (r *stubOrcamentoRepo) guardar(o *model.Orcamento) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Itens {
		item := &o.Itens[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrcamentoID = o.ID
		for j := range item.Insumos {
			if item.Insumos[j].ID == uuid.Nil {
				item.Insumos[j].ID = uuid.New()
			}
			item.Insumos[j].OrcamentoItemID = item.ID
		}
	}
	r.orcamentos[o.ID] = o
	r.ordemCria = append(r.ordemCria, o.ID)
}

func (r *stubOrcamentoRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Orcamento, error) {
	o, ok := r.orcamentos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrcamentoRepo) ObterPorObra(_ context.Context, obraID uuid.UUID) (*model.Orcamento, error) {
	// Walks creation order backwards: latest first, like ORDER BY created_at DESC.
	for i := len(r.ordemCria) - 1; i >= 0; i-- {
		o, ok := r.orcamentos[r.ordemCria[i]]
		if !ok {
			continue
		}
		if o.ObraID != nil && *o.ObraID == obraID && !o.IsTemplate {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrcamentoRepo) ListarModelos(_ context.Context) ([]model.Orcamento, error) {
	var modelos []model.Orcamento
	for i := len(r.ordemCria) - 1; i >= 0; i-- {
		o, ok := r.orcamentos[r.ordemCria[i]]
		if ok && o.IsTemplate {
			modelos = append(modelos, *o)
		}
	}
	return modelos, nil
}

func (r *stubOrcamentoRepo) Criar(_ context.Context, o *model.Orcamento) error {
	r.guardar(o)
	return nil
}

func (r *stubOrcamentoRepo) ExcluirPorObraTx(_ *gorm.DB, obraID uuid.UUID) error {
	for id, o := range r.orcamentos {
		if o.ObraID != nil && *o.ObraID == obraID {
			delete(r.orcamentos, id)
		}
	}
	return nil
}

func (r *stubOrcamentoRepo) CriarTx(_ *gorm.DB, o *model.Orcamento) error {
	r.guardar(o)
	return nil
}

func (r *stubOrcamentoRepo) CriarItemTx(_ *gorm.DB, item *model.OrcamentoItem) error {
	o, ok := r.orcamentos[item.OrcamentoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.ID = uuid.New()
	for j := range item.Insumos {
		item.Insumos[j].ID = uuid.New()
		item.Insumos[j].OrcamentoItemID = item.ID
	}
	o.Itens = append(o.Itens, *item)
	return nil
}

func (r *stubOrcamentoRepo) AtualizarTotaisTx(_ *gorm.DB, id uuid.UUID, valorTotal, bdi decimal.Decimal) error {
	o, ok := r.orcamentos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.ValorTotal = valorTotal
	o.BDI = bdi
	return nil
}

func (r *stubOrcamentoRepo) DB() *gorm.DB { return nil }

var _ repository.OrcamentoRepository = (*stubOrcamentoRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedInsumo(r *stubInsumoRepo, codigo, descricao, tipo string, custo float64) *model.Insumo {
	i := &model.Insumo{
		ID:          uuid.New(),
		Codigo:      codigo,
		Descricao:   descricao,
		Unidade:     "un",
		Tipo:        tipo,
		CustoPadrao: decimal.NewFromFloat(custo),
		Origem:      "proprio",
	}
	r.insumos[i.ID] = i
	return i
}

func seedComposicao(r *stubComposicaoRepo, codigo, descricao string, itens ...model.ComposicaoItem) *model.Composicao {
	c := &model.Composicao{
		ID:        uuid.New(),
		Codigo:    codigo,
		Descricao: descricao,
		Unidade:   "m2",
		Tipo:      "proprio",
	}
	for _, item := range itens {
		item.ID = uuid.New()
		item.ComposicaoID = c.ID
		c.Itens = append(c.Itens, item)
	}
	r.composicoes[c.ID] = c
	return c
}
