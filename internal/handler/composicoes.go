package handler

import (
	"net/http"

	"github.com/HicaroDev/obra-vista-sub001/internal/apierror"
	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComposicoesHandler struct{ svc service.ComposicaoService }

func NewComposicoesHandler(svc service.ComposicaoService) *ComposicoesHandler {
	return &ComposicoesHandler{svc: svc}
}

// Criar POST /v1/composicoes
func (h *ComposicoesHandler) Criar(c *gin.Context) {
	var req dto.CriarComposicaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/composicoes
func (h *ComposicoesHandler) Listar(c *gin.Context) {
	var filter dto.ComposicaoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtro inválido"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter GET /v1/composicoes/:id — includes resolved itens and "usada em".
func (h *ComposicoesHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, svcErr := h.svc.Obter(c.Request.Context(), id)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar PUT /v1/composicoes/:id
func (h *ComposicoesHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarComposicaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Atualizar(c.Request.Context(), id, req)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir DELETE /v1/composicoes/:id
func (h *ComposicoesHandler) Excluir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if svcErr := h.svc.Excluir(c.Request.Context(), id); svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
