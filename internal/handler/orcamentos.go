package handler

import (
	"net/http"

	"github.com/HicaroDev/obra-vista-sub001/internal/apierror"
	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/infra"
	"github.com/HicaroDev/obra-vista-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrcamentosHandler struct {
	importacao  service.ImportacaoService
	orcamentos  service.OrcamentoService
	maxUploadMB int64
}

func NewOrcamentosHandler(importacao service.ImportacaoService, orcamentos service.OrcamentoService, maxUploadMB int64) *OrcamentosHandler {
	return &OrcamentosHandler{importacao: importacao, orcamentos: orcamentos, maxUploadMB: maxUploadMB}
}

// Importar POST /v1/obras/:obra_id/orcamento/importar
// Multipart upload: field "arquivo" carries the XLSX workbook.
func (h *OrcamentosHandler) Importar(c *gin.Context) {
	obraID, err := uuid.Parse(c.Param("obra_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("obra_id inválido"))
		return
	}

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Arquivo ausente: envie o campo 'arquivo'"))
		return
	}
	if fileHeader.Size > h.maxUploadMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("Arquivo excede o tamanho máximo permitido"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler o arquivo"))
		return
	}
	defer f.Close()

	planilha, err := infra.AbrirPlanilha(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Arquivo não é uma planilha XLSX válida"))
		return
	}

	resumo, svcErr := h.importacao.ImportarOrcamento(c.Request.Context(), obraID, planilha)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resumo)
}

// Obter GET /v1/obras/:obra_id/orcamento
func (h *OrcamentosHandler) Obter(c *gin.Context) {
	obraID, err := uuid.Parse(c.Param("obra_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("obra_id inválido"))
		return
	}
	resp, svcErr := h.orcamentos.ObterPorObra(c.Request.Context(), obraID)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarModelos GET /v1/orcamentos/modelos
func (h *OrcamentosHandler) ListarModelos(c *gin.Context) {
	modelos, err := h.orcamentos.ListarModelos(c.Request.Context())
	if err != nil {
		respondErro(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": modelos})
}

// SalvarModelo POST /v1/orcamentos/:id/salvar-modelo
func (h *OrcamentosHandler) SalvarModelo(c *gin.Context) {
	orcamentoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	// Body is optional — without it the template keeps a derived name.
	var req dto.SalvarModeloRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.orcamentos.SalvarComoModelo(c.Request.Context(), orcamentoID, req.Nome)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CriarDesdeModelo POST /v1/obras/:obra_id/orcamento/from-modelo/:modelo_id
func (h *OrcamentosHandler) CriarDesdeModelo(c *gin.Context) {
	obraID, err := uuid.Parse(c.Param("obra_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("obra_id inválido"))
		return
	}
	modeloID, err := uuid.Parse(c.Param("modelo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("modelo_id inválido"))
		return
	}
	resp, svcErr := h.orcamentos.CriarDesdeModelo(c.Request.Context(), obraID, modeloID)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
