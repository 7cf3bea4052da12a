package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/pkg/utils"
)

func pageAndLimit(c echo.Context) (int, int) {
	p := utils.GetPaginationParams(c)
	return p.Page, p.PageSize
}
