package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "bank-reconciliation-backend/internal/handlers"
	"bank-reconciliation-backend/internal/repository"
	"bank-reconciliation-backend/internal/services/matching"
	service "bank-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	store := repository.NewStore(db)

	reconService := service.NewService(store, store, matching.NullSimilarity{})
	reconHandler := handler.NewReconciliationHandler(reconService, store)

	api := r.Group("/api")

	api.GET("/health", reconHandler.Health)

	api.POST("/reconcile", reconHandler.Reconcile)
	api.POST("/manual-match", reconHandler.ManualMatch)

	invoices := api.Group("/invoices")
	{
		invoices.POST("/upload", reconHandler.UploadInvoices)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/upload", reconHandler.UploadPayments)
	}
}
