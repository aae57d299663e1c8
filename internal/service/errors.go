package service

import "errors"

// Domain errors surfaced to handlers. Handlers map each one to a distinct
// HTTP status so UIs can react (e.g. prompt for another código on 409).
var (
	ErrNaoEncontrado         = errors.New("registro não encontrado")
	ErrCodigoDuplicado       = errors.New("código já cadastrado")
	ErrCicloDetectado        = errors.New("a composição não pode conter a si mesma, direta ou indiretamente")
	ErrComposicaoEmUso       = errors.New("composição referenciada como componente de outra composição")
	ErrInsumoEmUso           = errors.New("insumo referenciado por composições do catálogo")
	ErrItemInvalido          = errors.New("item de composição deve referenciar exatamente um insumo ou uma composição filha")
	ErrPlanilhaInvalida      = errors.New("planilha inválida")
	ErrImportacaoEmAndamento = errors.New("já existe uma importação em andamento para esta obra")
)
