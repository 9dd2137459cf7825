package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eren/driveshare/internal/pkg/apperrors"
)

// idParam parses a positive integer path parameter.
func idParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("invalid " + name + " parameter")
	}
	return id, nil
}
