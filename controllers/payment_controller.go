package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/services"
	"github.com/cppla/dollarblog/utils"
)

// CheckoutCreator opens checkout sessions.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, items []services.LineItem) (services.CheckoutSession, error)
	Catalog() services.Catalog
}

// PaymentController serves the checkout endpoints.
type PaymentController struct {
	checkout CheckoutCreator
	log      *zap.Logger
}

func NewPaymentController(checkout CheckoutCreator, log *zap.Logger) *PaymentController {
	return &PaymentController{checkout: checkout, log: log}
}

type checkoutRequest struct {
	Items []services.LineItem `json:"items"`
}

// Checkout answers {url} for the hosted payment page.
func (p *PaymentController) Checkout(ctx *gin.Context) {
	var req checkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Invalid items data. Only one plan is allowed.")
		return
	}
	sess, err := p.checkout.CreateSession(ctx.Request.Context(), req.Items)
	if err != nil {
		utils.RespondError(ctx, p.log, err)
		return
	}
	utils.Success(ctx, gin.H{"url": sess.URL})
}

// Plans lists the purchasable plans.
func (p *PaymentController) Plans(ctx *gin.Context) {
	utils.Success(ctx, p.checkout.Catalog().Plans())
}
