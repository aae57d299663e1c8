package router

import (
	"time"

	"github.com/HicaroDev/obra-vista-sub001/internal/config"
	"github.com/HicaroDev/obra-vista-sub001/internal/handler"
	"github.com/HicaroDev/obra-vista-sub001/internal/middleware"
	"github.com/HicaroDev/obra-vista-sub001/internal/repository"
	"github.com/HicaroDev/obra-vista-sub001/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	insumoRepo := repository.NewInsumoRepository(db)
	composicaoRepo := repository.NewComposicaoRepository(db)
	orcamentoRepo := repository.NewOrcamentoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	insumoSvc := service.NewInsumoService(insumoRepo)
	composicaoSvc := service.NewComposicaoService(composicaoRepo, insumoRepo)
	orcamentoSvc := service.NewOrcamentoService(orcamentoRepo)
	importacaoSvc := service.NewImportacaoService(orcamentoRepo, insumoRepo, composicaoRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	insumosH := handler.NewInsumosHandler(insumoSvc)
	composicoesH := handler.NewComposicoesHandler(composicaoSvc)
	orcamentosH := handler.NewOrcamentosHandler(importacaoSvc, orcamentoSvc, cfg.MaxUploadMB)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		insumos := v1.Group("/insumos")
		{
			insumos.POST("", insumosH.Criar)
			insumos.GET("", insumosH.Listar)
			insumos.GET("/:id", insumosH.ObterPorID)
			insumos.PUT("/:id", insumosH.Atualizar)
			insumos.DELETE("/:id", insumosH.Excluir)
		}

		composicoes := v1.Group("/composicoes")
		{
			composicoes.POST("", composicoesH.Criar)
			composicoes.GET("", composicoesH.Listar)
			composicoes.GET("/:id", composicoesH.Obter)
			composicoes.PUT("/:id", composicoesH.Atualizar)
			composicoes.DELETE("/:id", composicoesH.Excluir)
		}

		// Imports are heavy — their own tighter rate budget.
		v1.POST("/obras/:obra_id/orcamento/importar",
			middleware.RateLimiter(10, time.Minute), orcamentosH.Importar)
		v1.GET("/obras/:obra_id/orcamento", orcamentosH.Obter)
		v1.POST("/obras/:obra_id/orcamento/from-modelo/:modelo_id", orcamentosH.CriarDesdeModelo)

		v1.GET("/orcamentos/modelos", orcamentosH.ListarModelos)
		v1.POST("/orcamentos/:id/salvar-modelo", orcamentosH.SalvarModelo)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
