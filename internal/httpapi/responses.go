package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

const (
	messageUnauthorized  = "No autorizado"
	messageInvalidInput  = "Datos inválidos"
	messageInternalError = "Error interno del servidor"
)

func errorJSON(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// respondDomainError translates a service failure into the client-facing
// status and message. Unrecognized errors become opaque 500s.
func respondDomainError(ctx *gin.Context, err error) {
	var shortfall storefront.ProfileShortfallError
	if errors.As(err, &shortfall) {
		errorJSON(ctx, http.StatusBadRequest,
			fmt.Sprintf("No hay suficientes perfiles disponibles. Disponibles: %d", shortfall.Available))
		return
	}
	var typeInUse storefront.TypeInUseError
	if errors.As(err, &typeInUse) {
		errorJSON(ctx, http.StatusBadRequest,
			fmt.Sprintf("No se puede eliminar este tipo porque hay %d cuentas asociadas", typeInUse.Accounts))
		return
	}

	switch {
	case errors.Is(err, storefront.ErrUserNotFound):
		errorJSON(ctx, http.StatusNotFound, "Usuario no encontrado")
	case errors.Is(err, storefront.ErrAccountNotFound):
		errorJSON(ctx, http.StatusNotFound, "Cuenta no encontrada")
	case errors.Is(err, storefront.ErrTypeNotFound):
		errorJSON(ctx, http.StatusNotFound, "Tipo no encontrado")
	case errors.Is(err, storefront.ErrProfileNotFound):
		errorJSON(ctx, http.StatusNotFound, "Perfil no encontrado")
	case errors.Is(err, storefront.ErrCartNotFound):
		errorJSON(ctx, http.StatusNotFound, "Carrito no encontrado")
	case errors.Is(err, storefront.ErrCartItemNotFound):
		errorJSON(ctx, http.StatusNotFound, "Item no encontrado")
	case errors.Is(err, storefront.ErrEmptyCart):
		errorJSON(ctx, http.StatusBadRequest, "Carrito vacío")
	case errors.Is(err, storefront.ErrInsufficientCredits):
		errorJSON(ctx, http.StatusBadRequest, "Créditos insuficientes")
	case errors.Is(err, storefront.ErrProfileSold):
		errorJSON(ctx, http.StatusBadRequest, "No se puede marcar como disponible un perfil ya vendido")
	case errors.Is(err, storefront.ErrEmailTaken):
		errorJSON(ctx, http.StatusBadRequest, "El correo ya está registrado")
	case errors.Is(err, storefront.ErrDuplicateTypeName):
		errorJSON(ctx, http.StatusBadRequest, "Este tipo de streaming ya existe")
	case errors.Is(err, storefront.ErrDuplicateProfileName):
		errorJSON(ctx, http.StatusBadRequest, "Este perfil ya existe para esta cuenta")
	case errors.Is(err, storefront.ErrInvalidQuantity),
		errors.Is(err, storefront.ErrInvalidSaleType),
		errors.Is(err, storefront.ErrInvalidAmount),
		errors.Is(err, storefront.ErrInvalidRole),
		errors.Is(err, storefront.ErrInvalidUserInput):
		errorJSON(ctx, http.StatusBadRequest, messageInvalidInput)
	default:
		errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
	}
}
