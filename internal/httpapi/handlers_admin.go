package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

func (server *Server) handleStats(ctx *gin.Context) {
	stats, err := server.service.DashboardStats(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewStats(stats))
}

func (server *Server) handleListUsers(ctx *gin.Context) {
	summaries, err := server.service.ListUsers(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewUserSummaries(summaries))
}

type rechargeRequest struct {
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
	Metadata  string  `json:"metadata"`
}

func (server *Server) handleRecharge(ctx *gin.Context) {
	var request rechargeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	if request.UserID == "" || request.Amount <= 0 {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	recharge, user, err := server.service.RechargeCredits(
		ctx.Request.Context(),
		request.UserID,
		parseAmount(request.Amount),
		request.Method,
		request.Reference,
		request.Metadata,
	)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"recharge": viewRecharge(recharge),
		"user":     viewUser(user),
	})
}

func (server *Server) handleAllOrders(ctx *gin.Context) {
	orders, err := server.service.AllOrders(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewOrders(orders))
}

func (server *Server) handleAdminAccounts(ctx *gin.Context) {
	accounts, err := server.service.ListAllAccounts(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewAccounts(accounts, true))
}

type accountRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	PricePerProfile *float64 `json:"pricePerProfile"`
	Type            string   `json:"type"`
	Duration        string   `json:"duration"`
	Quality         string   `json:"quality"`
	Screens         int      `json:"screens"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Image           string   `json:"image"`
	IsActive        *bool    `json:"isActive"`
}

func (request accountRequest) toDomain(accountID string) storefront.StreamingAccount {
	account := storefront.StreamingAccount{
		ID:          accountID,
		Name:        request.Name,
		Description: request.Description,
		Price:       parseAmount(request.Price),
		Type:        request.Type,
		Duration:    request.Duration,
		Quality:     request.Quality,
		Screens:     request.Screens,
		Email:       request.Email,
		Password:    request.Password,
		Image:       request.Image,
		Active:      true,
	}
	if request.PricePerProfile != nil {
		perProfile := decimal.NewFromFloat(*request.PricePerProfile)
		account.PricePerProfile = &perProfile
	}
	if request.IsActive != nil {
		account.Active = *request.IsActive
	}
	return account
}

func (server *Server) handleCreateAccount(ctx *gin.Context) {
	var request accountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	account, err := server.service.CreateAccount(ctx.Request.Context(), request.toDomain(""))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, viewAccount(account, true))
}

func (server *Server) handleUpdateAccount(ctx *gin.Context) {
	var request accountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	account, err := server.service.UpdateAccount(ctx.Request.Context(), request.toDomain(ctx.Param("accountId")))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewAccount(account, true))
}

func (server *Server) handleDeleteAccount(ctx *gin.Context) {
	if err := server.service.DeleteAccount(ctx.Request.Context(), ctx.Param("accountId")); err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (server *Server) handleListTypes(ctx *gin.Context) {
	streamingTypes, err := server.service.ListStreamingTypes(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewTypes(streamingTypes))
}

type typeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsActive    *bool  `json:"isActive"`
}

func (request typeRequest) toDomain(typeID string) storefront.StreamingType {
	streamingType := storefront.StreamingType{
		ID:          typeID,
		Name:        request.Name,
		Description: request.Description,
		Icon:        request.Icon,
		Color:       request.Color,
		Active:      true,
	}
	if request.IsActive != nil {
		streamingType.Active = *request.IsActive
	}
	return streamingType
}

func (server *Server) handleCreateType(ctx *gin.Context) {
	var request typeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	streamingType, err := server.service.CreateStreamingType(ctx.Request.Context(), request.toDomain(""))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, viewType(streamingType))
}

func (server *Server) handleUpdateType(ctx *gin.Context) {
	var request typeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	streamingType, err := server.service.UpdateStreamingType(ctx.Request.Context(), request.toDomain(ctx.Param("typeId")))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewType(streamingType))
}

func (server *Server) handleDeleteType(ctx *gin.Context) {
	if err := server.service.DeleteStreamingType(ctx.Request.Context(), ctx.Param("typeId")); err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (server *Server) handleListProfiles(ctx *gin.Context) {
	profiles, err := server.service.ListProfiles(ctx.Request.Context(), ctx.Query("accountId"))
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewProfiles(profiles))
}

type profileRequest struct {
	StreamingAccountID string `json:"streamingAccountId"`
	ProfileName        string `json:"profileName"`
	ProfilePin         string `json:"profilePin"`
	IsAvailable        *bool  `json:"isAvailable"`
}

func (server *Server) handleCreateProfile(ctx *gin.Context) {
	var request profileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	profile, err := server.service.CreateProfile(ctx.Request.Context(), storefront.AccountProfile{
		StreamingAccountID: request.StreamingAccountID,
		ProfileName:        request.ProfileName,
		ProfilePin:         request.ProfilePin,
	})
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, viewProfile(profile))
}

func (server *Server) handleUpdateProfile(ctx *gin.Context) {
	var request profileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	isAvailable := true
	if request.IsAvailable != nil {
		isAvailable = *request.IsAvailable
	}
	profile, err := server.service.UpdateProfile(ctx.Request.Context(), ctx.Param("profileId"), request.ProfileName, request.ProfilePin, isAvailable)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewProfile(profile))
}

func (server *Server) handleDeleteProfile(ctx *gin.Context) {
	err := server.service.DeleteProfile(ctx.Request.Context(), ctx.Param("profileId"))
	if errors.Is(err, storefront.ErrProfileSold) {
		errorJSON(ctx, http.StatusBadRequest, "No se puede eliminar un perfil ya vendido")
		return
	}
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
