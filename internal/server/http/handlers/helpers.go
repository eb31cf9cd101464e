package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/server/http/dto"
	"github.com/okonev/orderdesk/internal/server/http/middleware"
	"github.com/okonev/orderdesk/internal/usecase"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Error("invalid id"))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// formScreenshot reads an optional uploaded file. A missing file yields nil.
func formScreenshot(c *gin.Context, field string) (*usecase.Screenshot, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &usecase.Screenshot{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var invalid *domainErrors.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, dto.Error(invalid.Error()))
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.Error("invalid credentials"))
	case errors.Is(err, domainErrors.ErrNotOwner), errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Error("forbidden"))
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error("not found"))
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.Error("already exists"))
	case errors.Is(err, domainErrors.ErrVersionConflict):
		c.JSON(http.StatusConflict, dto.Error("order was modified concurrently, retry"))
	default:
		c.JSON(http.StatusInternalServerError, dto.Error("internal error"))
	}
}
