package handler

import (
	"net/http"

	"rocketcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 通知の種類 → HTTPステータス
func statusForKind(k usecase.ErrorKind) int {
	switch k {
	case usecase.KindOutOfStock, usecase.KindUnavailable:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindLookup:
		return http.StatusBadGateway
	case usecase.KindCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
