package handler

import (
	"net/http"

	"github.com/HicaroDev/obra-vista-sub001/internal/apierror"
	"github.com/HicaroDev/obra-vista-sub001/internal/dto"
	"github.com/HicaroDev/obra-vista-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InsumosHandler struct{ svc service.InsumoService }

func NewInsumosHandler(svc service.InsumoService) *InsumosHandler {
	return &InsumosHandler{svc: svc}
}

// Criar POST /v1/insumos
func (h *InsumosHandler) Criar(c *gin.Context) {
	var req dto.CriarInsumoRequest
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

// Listar GET /v1/insumos
func (h *InsumosHandler) Listar(c *gin.Context) {
	var filter dto.InsumoFilter
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

// ObterPorID GET /v1/insumos/:id
func (h *InsumosHandler) ObterPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, svcErr := h.svc.ObterPorID(c.Request.Context(), id)
	if svcErr != nil {
		respondErro(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar PUT /v1/insumos/:id
func (h *InsumosHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarInsumoRequest
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

// Excluir DELETE /v1/insumos/:id
func (h *InsumosHandler) Excluir(c *gin.Context) {
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
