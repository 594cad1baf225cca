package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheetName = "Ordenes"

var exportHeaders = []string{
	"ID", "Usuario", "Cuenta", "Tipo de venta", "Perfil",
	"Cantidad", "Precio", "Estado", "Expira", "Creada",
}

// handleExportOrders streams the full order book as an xlsx workbook.
func (server *Server) handleExportOrders(ctx *gin.Context) {
	orders, err := server.service.AllOrders(ctx.Request.Context())
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	sheetIndex, err := workbook.NewSheet(exportSheetName)
	if err != nil {
		server.logger.Error("create export sheet", zap.Error(err))
		errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
		return
	}
	workbook.SetActiveSheet(sheetIndex)
	workbook.DeleteSheet("Sheet1")

	for column, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(column+1, 1)
		if err := workbook.SetCellValue(exportSheetName, cell, header); err != nil {
			server.logger.Error("write export header", zap.Error(err))
			errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
			return
		}
	}

	for rowIndex, order := range orders {
		values := []any{
			order.ID,
			order.UserID,
			order.StreamingAccountID,
			order.SaleType.String(),
			order.ProfileName,
			order.Quantity,
			order.TotalPrice.InexactFloat64(),
			order.Status.String(),
			order.ExpiresAt.Format(time.RFC3339),
			order.CreatedAt.Format(time.RFC3339),
		}
		for column, value := range values {
			cell, _ := excelize.CoordinatesToCellName(column+1, rowIndex+2)
			if err := workbook.SetCellValue(exportSheetName, cell, value); err != nil {
				server.logger.Error("write export row", zap.Error(err))
				errorJSON(ctx, http.StatusInternalServerError, messageInternalError)
				return
			}
		}
	}

	filename := fmt.Sprintf("ordenes-%s.xlsx", server.nowFn().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(ctx.Writer); err != nil {
		server.logger.Error("write export workbook", zap.Error(err))
	}
}
