package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/streamhub/internal/auth"
	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

func (server *Server) handleCatalog(ctx *gin.Context) {
	accounts, err := server.service.Catalog(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewAccounts(accounts, false))
}

func (server *Server) handleGetCart(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	cart, err := server.service.GetCart(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewCart(cart))
}

type addToCartRequest struct {
	StreamingAccountID string `json:"streamingAccountId"`
	Quantity           int    `json:"quantity"`
	SaleType           string `json:"saleType"`
}

func (server *Server) handleAddToCart(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	var request addToCartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	if request.StreamingAccountID == "" || request.Quantity < 1 {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	saleType := storefront.SaleFull
	if request.SaleType != "" {
		parsed, err := storefront.ParseSaleType(request.SaleType)
		if err != nil {
			respondDomainError(ctx, err)
			return
		}
		saleType = parsed
	}
	cart, err := server.service.AddToCart(ctx.Request.Context(), claims.UserID, request.StreamingAccountID, request.Quantity, saleType)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewCart(cart))
}

func (server *Server) handleRemoveCartItem(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	cart, err := server.service.RemoveCartItem(ctx.Request.Context(), claims.UserID, ctx.Param("itemId"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewCart(cart))
}

func (server *Server) handleCheckout(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	orders, err := server.service.Checkout(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": viewOrders(orders)})
}

func (server *Server) handleUserOrders(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	orders, err := server.service.UserOrders(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewOrders(orders))
}
