package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
)

// writeError maps domain and application errors to a status code and message.
// notFound is the message used for a missing entity on this route.
func writeError(c *gin.Context, logger *logrus.Logger, err error, notFound string) {
	var storageErr *application.StorageError
	var searchErr *application.SearchError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, notFound, nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid Email or Password", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "Email already exist", nil)
	case errors.Is(err, application.ErrEmptyOrder):
		response.Error[any](c, http.StatusBadRequest, "Cart is Empty", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, repository.ErrStaleVersion):
		response.Error[any](c, http.StatusConflict, "Record was modified by another request, reload and retry", nil)
	case errors.Is(err, repository.ErrConflict):
		response.Error[any](c, http.StatusConflict, "Duplicate value", nil)
	case errors.As(err, &storageErr), errors.Is(err, application.ErrNoObjectStore):
		if logger != nil {
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("object storage failure")
		}
		response.Error[any](c, http.StatusBadGateway, "Image storage is unavailable", nil)
	case errors.As(err, &searchErr):
		if logger != nil {
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("search failure")
		}
		response.Error[any](c, http.StatusBadGateway, "Search is unavailable", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}

func identity(c *gin.Context) application.Identity {
	return application.Identity{
		UserID:   c.GetString(middleware.CtxUserIDKey),
		IsAdmin:  c.GetBool(middleware.CtxIsAdminKey),
		IsSeller: c.GetBool(middleware.CtxIsSellerKey),
	}
}
