package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/model"
	"github.com/HicaroDev/obra-vista-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	abaOrcamento   = "Budget Detail"
	abaComposicoes = "Composition Detail"

	// travaTTL bounds how long a crashed import can hold the per-obra lock.
	travaTTL = 5 * time.Minute
)

// Column layout of the "Composition Detail" sheet.
const (
	colCompCodigo = iota
	colCompDescricao
	colCompUnidade
	colCompTipoComponente
	colCompCodigoComponente
	colCompDescComponente
	colCompUnidComponente
	colCompCoeficiente
	colCompCustoUnitario
)

// Column layout of the "Budget Detail" sheet.
const (
	colOrcWBS = iota
	colOrcEtapa
	colOrcCodigo
	colOrcDescricao
	colOrcUnidade
	colOrcQuantidade
	colOrcCustoMaterial
	colOrcCustoMaoDeObra
	colOrcCustoEquipamento
	colOrcCustoUnitario
	_ // unused column in the source layout
	colOrcValorTotal
)

// ImportacaoService ingests spreadsheet-authored budgets: it feeds the shared
// catalog (upsert-by-code) and replaces the obra's orçamento wholesale.
type ImportacaoService interface {
	ImportarOrcamento(ctx context.Context, obraID uuid.UUID, planilha Planilha) (*dto.ResumoImportacaoResponse, error)
}

type importacaoService struct {
	orcamentoRepo  repository.OrcamentoRepository
	insumoRepo     repository.InsumoRepository
	composicaoRepo repository.ComposicaoRepository
	rdb            *redis.Client
}

func NewImportacaoService(
	orcamentoRepo repository.OrcamentoRepository,
	insumoRepo repository.InsumoRepository,
	composicaoRepo repository.ComposicaoRepository,
	rdb *redis.Client,
) ImportacaoService {
	return &importacaoService{
		orcamentoRepo:  orcamentoRepo,
		insumoRepo:     insumoRepo,
		composicaoRepo: composicaoRepo,
		rdb:            rdb,
	}
}

// ImportarOrcamento runs the whole import as ONE transaction: drop the obra's
// previous orçamentos, feed the catalog from the optional "Composition Detail"
// sheet, then build the new orçamento from "Budget Detail" rows. A failure
// anywhere rolls everything back, so the obra never ends up without a budget.
//
// Replace semantics: re-importing is destructive for the obra's orçamento but
// idempotent for the shared catalog (upsert-by-code never duplicates).
func (s *importacaoService) ImportarOrcamento(ctx context.Context, obraID uuid.UUID, planilha Planilha) (*dto.ResumoImportacaoResponse, error) {
	// Fail fast before any write or lock: the budget sheet is mandatory.
	linhasOrcamento, ok := planilha.Aba(abaOrcamento)
	if !ok {
		return nil, fmt.Errorf("%w: aba %q ausente", ErrPlanilhaInvalida, abaOrcamento)
	}

	// Serialize imports per obra. Two concurrent imports of the same obra must
	// not interleave the delete-then-recreate sequence; different obras touch
	// disjoint rows and may run in parallel.
	liberar, err := s.travarObra(ctx, obraID)
	if err != nil {
		return nil, err
	}
	defer liberar()

	var resumo dto.ResumoImportacaoResponse

	txErr := runTx(ctx, s.orcamentoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.orcamentoRepo.ExcluirPorObraTx(tx, obraID); err != nil {
			return err
		}

		if linhasCatalogo, ok := planilha.Aba(abaComposicoes); ok {
			if err := s.importarCatalogo(ctx, tx, linhasCatalogo); err != nil {
				return err
			}
		}

		oid := obraID
		orcamento := &model.Orcamento{
			ObraID:   &oid,
			Nome:     "Orçamento importado",
			DataBase: time.Now(),
		}
		if err := s.orcamentoRepo.CriarTx(tx, orcamento); err != nil {
			return err
		}

		custoTotal, vendaTotal, err := s.importarItens(ctx, tx, orcamento.ID, linhasOrcamento)
		if err != nil {
			return err
		}

		bdi := calcularBDI(custoTotal, vendaTotal)
		if err := s.orcamentoRepo.AtualizarTotaisTx(tx, orcamento.ID, vendaTotal, bdi); err != nil {
			return err
		}

		resumo = dto.ResumoImportacaoResponse{
			OrcamentoID: orcamento.ID.String(),
			CustoTotal:  custoTotal,
			VendaTotal:  vendaTotal,
			BDI:         bdi,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("obra_id", obraID.String()).
		Str("orcamento_id", resumo.OrcamentoID).
		Str("bdi", resumo.BDI.String()).
		Msg("orçamento importado")

	return &resumo, nil
}

// importarCatalogo processes "Composition Detail" rows, upserting composições
// and insumos by código and linking them. The two código→id caches are scoped
// to this call only, so one import pass never hits the DB twice for the same
// código and stale caches cannot leak across requests.
func (s *importacaoService) importarCatalogo(ctx context.Context, tx *gorm.DB, linhas [][]string) error {
	composicoes := make(map[string]uuid.UUID)
	insumos := make(map[string]uuid.UUID)

	for idx, linha := range linhas {
		if idx == 0 {
			continue // header row
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		codigoComposicao := celula(linha, colCompCodigo)
		codigoInsumo := celula(linha, colCompCodigoComponente)
		if codigoComposicao == "" || codigoInsumo == "" {
			continue
		}

		composicaoID, ok := composicoes[codigoComposicao]
		if !ok {
			c := &model.Composicao{
				Codigo:    codigoComposicao,
				Descricao: celula(linha, colCompDescricao),
				Unidade:   unidadeOuPadrao(celula(linha, colCompUnidade)),
				Tipo:      "proprio",
			}
			if err := s.composicaoRepo.CriarSeAusenteTx(tx, c); err != nil {
				return fmt.Errorf("composição %s: %w", codigoComposicao, err)
			}
			composicaoID = c.ID
			composicoes[codigoComposicao] = composicaoID
		}

		insumoID, ok := insumos[codigoInsumo]
		if !ok {
			i := &model.Insumo{
				Codigo:      codigoInsumo,
				Descricao:   celula(linha, colCompDescComponente),
				Unidade:     unidadeOuPadrao(celula(linha, colCompUnidComponente)),
				Tipo:        classificarTipoInsumo(celula(linha, colCompTipoComponente)),
				CustoPadrao: numero(celula(linha, colCompCustoUnitario)),
				Origem:      "importacao",
			}
			if err := s.insumoRepo.CriarSeAusenteTx(tx, i); err != nil {
				return fmt.Errorf("insumo %s: %w", codigoInsumo, err)
			}
			insumoID = i.ID
			insumos[codigoInsumo] = insumoID
		}

		// First import wins: an existing edge keeps its coefficient even when
		// a later sheet carries a different value.
		existe, err := s.composicaoRepo.ExisteItemTx(tx, composicaoID, insumoID)
		if err != nil {
			return err
		}
		if !existe {
			iid := insumoID
			item := &model.ComposicaoItem{
				ComposicaoID: composicaoID,
				InsumoID:     &iid,
				Coeficiente:  numero(celula(linha, colCompCoeficiente)),
			}
			if err := s.composicaoRepo.CriarItemTx(tx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// importarItens turns each "Budget Detail" row into one OrcamentoItem — no
// deduplication — and accumulates running cost (custo unitário × quantidade)
// and sell (valor total da linha) over the priced rows. Priced rows whose
// código resolves against the catalog get the composição's component rows
// frozen onto them as snapshots.
func (s *importacaoService) importarItens(ctx context.Context, tx *gorm.DB, orcamentoID uuid.UUID, linhas [][]string) (custoTotal, vendaTotal decimal.Decimal, err error) {
	custoTotal = decimal.Zero
	vendaTotal = decimal.Zero
	ordem := 0

	// código→composição cache for the snapshot pass; negative hits are cached
	// too, so an unknown código costs one lookup per import, not one per row.
	catalogo := make(map[string]*model.Composicao)

	for idx, linha := range linhas {
		if idx == 0 {
			continue // header row
		}
		if err := ctx.Err(); err != nil {
			return custoTotal, vendaTotal, err
		}

		codigo := celula(linha, colOrcCodigo)
		etapa := celula(linha, colOrcEtapa)
		descricao := celula(linha, colOrcDescricao)
		if codigo == "" && etapa == "" && descricao == "" && celula(linha, colOrcWBS) == "" {
			continue // fully blank row
		}

		item := &model.OrcamentoItem{
			OrcamentoID: orcamentoID,
			Ordem:       ordem,
			WBS:         celula(linha, colOrcWBS),
		}
		ordem++

		if codigo == "" {
			// Organizational header row: no price, description from the
			// stage-name column.
			item.Tipo = model.ItemEtapa
			item.Descricao = etapa
		} else {
			item.Tipo = model.ItemComposicao
			item.Codigo = codigo
			item.Descricao = descricao
			item.Unidade = celula(linha, colOrcUnidade)
			item.Quantidade = numero(celula(linha, colOrcQuantidade))
			item.CustoMaterial = numero(celula(linha, colOrcCustoMaterial))
			item.CustoMaoDeObra = numero(celula(linha, colOrcCustoMaoDeObra))
			item.CustoEquipamento = numero(celula(linha, colOrcCustoEquipamento))
			item.ValorUnitario = numero(celula(linha, colOrcCustoUnitario))
			item.ValorTotal = numero(celula(linha, colOrcValorTotal))

			comp, err := s.buscarComposicao(tx, catalogo, codigo)
			if err != nil {
				return custoTotal, vendaTotal, err
			}
			if comp != nil {
				item.Insumos = congelarComponentes(comp)
			}

			custoTotal = custoTotal.Add(item.ValorUnitario.Mul(item.Quantidade))
			vendaTotal = vendaTotal.Add(item.ValorTotal)
		}

		if err := s.orcamentoRepo.CriarItemTx(tx, item); err != nil {
			return custoTotal, vendaTotal, err
		}
	}
	return custoTotal, vendaTotal, nil
}

// buscarComposicao resolves a budget-line código against the catalog through
// the call-scoped cache. Misses are cached as nil: a código with no catalog
// entry is normal (the sheet may price composições never detailed).
func (s *importacaoService) buscarComposicao(tx *gorm.DB, cache map[string]*model.Composicao, codigo string) (*model.Composicao, error) {
	if comp, ok := cache[codigo]; ok {
		return comp, nil
	}
	comp, err := s.composicaoRepo.ObterPorCodigoComItensTx(tx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cache[codigo] = nil
			return nil, nil
		}
		return nil, err
	}
	cache[codigo] = comp
	return comp, nil
}

// congelarComponentes copies the composição's direct components into frozen
// snapshot rows. The copies carry no foreign key into the catalog, so later
// catalog edits never alter this budget line.
func congelarComponentes(comp *model.Composicao) []model.ComposicaoInsumo {
	var snapshots []model.ComposicaoInsumo
	for _, edge := range comp.Itens {
		switch {
		case edge.Insumo != nil:
			snapshots = append(snapshots, model.ComposicaoInsumo{
				Tipo:          edge.Insumo.Tipo,
				Codigo:        edge.Insumo.Codigo,
				Descricao:     edge.Insumo.Descricao,
				Unidade:       edge.Insumo.Unidade,
				Quantidade:    edge.Coeficiente,
				CustoUnitario: edge.Insumo.CustoPadrao,
				CustoTotal:    edge.Coeficiente.Mul(edge.Insumo.CustoPadrao).Round(2),
			})
		case edge.Filha != nil:
			// Child assemblies have no unit cost of their own on the catalog
			// row; freeze the reference and its coefficient.
			snapshots = append(snapshots, model.ComposicaoInsumo{
				Tipo:       "composicao",
				Codigo:     edge.Filha.Codigo,
				Descricao:  edge.Filha.Descricao,
				Unidade:    edge.Filha.Unidade,
				Quantidade: edge.Coeficiente,
			})
		}
	}
	return snapshots
}

// travarObra takes the per-obra import lock (SET NX). Returns a release func.
// With no redis configured (unit tests) the lock degrades to a no-op.
func (s *importacaoService) travarObra(ctx context.Context, obraID uuid.UUID) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}
	chave := "importacao:obra:" + obraID.String()
	ok, err := s.rdb.SetNX(ctx, chave, "1", travaTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrImportacaoEmAndamento
	}
	return func() {
		if err := s.rdb.Del(context.Background(), chave).Err(); err != nil {
			log.Warn().Err(err).Str("chave", chave).Msg("falha ao liberar trava de importação")
		}
	}, nil
}

// calcularBDI derives the aggregate markup: (venda / custo − 1) × 100,
// or zero when either side is zero.
func calcularBDI(custo, venda decimal.Decimal) decimal.Decimal {
	if custo.IsZero() || venda.IsZero() || custo.IsNegative() || venda.IsNegative() {
		return decimal.Zero
	}
	return venda.Div(custo).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(2)
}

// classificarTipoInsumo maps the free-text type column to a catalog tipo.
// Keyword match, case-insensitive; material is the fallback.
func classificarTipoInsumo(texto string) string {
	t := strings.ToLower(texto)
	switch {
	case strings.Contains(t, "mão") || strings.Contains(t, "mao") ||
		strings.Contains(t, "servente") || strings.Contains(t, "pedreiro"):
		return model.InsumoMaoDeObra
	case strings.Contains(t, "equipamento"):
		return model.InsumoEquipamento
	case strings.Contains(t, "serviço") || strings.Contains(t, "servico") ||
		strings.Contains(t, "composicao"):
		return model.InsumoServico
	default:
		return model.InsumoMaterial
	}
}

// numero coerces a spreadsheet cell into a decimal. Malformed numbers degrade
// to zero — a bad cell never aborts its row. Accepts "1234.56", the pt-BR
// "1.234,56" form, and dot-grouped thousands like "1.234.567". A lone dot is
// read as the decimal separator ("1.234" → 1.234): excelize serializes
// numeric cells with dot decimals, so pt-BR dot-thousands without a decimal
// comma only show up in multi-group form.
func numero(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func unidadeOuPadrao(u string) string {
	if u == "" {
		return "un"
	}
	return u
}
