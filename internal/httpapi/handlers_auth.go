package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/streamhub/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (server *Server) handleRegister(ctx *gin.Context) {
	var request registerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	if strings.TrimSpace(request.Password) == "" {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
		return
	}
	user, err := server.service.RegisterUser(ctx.Request.Context(), request.Email, request.Name, passwordHash)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"user": viewUser(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (server *Server) handleLogin(ctx *gin.Context) {
	var request loginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	user, err := server.service.UserByEmail(ctx.Request.Context(), request.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		errorJSON(ctx, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	token, err := server.sessions.Mint(user.ID, user.Email, user.Name, user.Role.String(), server.nowFn())
	if err != nil {
		server.logger.Error("mint session", zap.Error(err))
		errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
		return
	}
	server.sessions.SetCookie(ctx, token)
	ctx.JSON(http.StatusOK, gin.H{"user": viewUser(user)})
}

func (server *Server) handleLogout(ctx *gin.Context) {
	server.sessions.ClearCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (server *Server) handleSession(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	user, err := server.service.UserByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": viewUser(user)})
}

func (server *Server) handleCurrentUser(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	user, err := server.service.UserByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewUser(user))
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

func (server *Server) handleUpdateCurrentUser(ctx *gin.Context) {
	claims := auth.ClaimsFrom(ctx)
	var request updateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
		return
	}
	user, err := server.service.UpdateUserProfile(ctx.Request.Context(), claims.UserID, request.Name, request.Phone, request.Avatar)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, viewUser(user))
}
