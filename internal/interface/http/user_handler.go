package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
	"github.com/oksasatya/go-ecommerce-backend/pkg/validation"
)

const userNotFound = "User Not Found"

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type adminUpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
	IsAdmin  *bool  `json:"isAdmin"`
	IsSeller *bool  `json:"isSeller"`
}

func authMeta(res *application.AuthResult) map[string]any {
	return map[string]any{"token_expires_at": res.ExpiresAt}
}

func (h *UserHandler) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(res.User, res.Token), "signed in", authMeta(res))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success(c, http.StatusCreated, application.NewUserView(res.User, res.Token), "registered", authMeta(res))
}

// UpdateProfile always edits the caller; a user id in the body is ignored.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.UpdateProfile(c.Request.Context(), identity(c).UserID, application.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(res.User, res.Token), "profile updated", authMeta(res))
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	out := make([]application.UserView, 0, len(users))
	for i := range users {
		out = append(out, application.NewUserView(&users[i], ""))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("user search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "Search is unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "users", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(u, ""), "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.AdminUpdate(c.Request.Context(), c.Param("id"), application.AdminUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		IsSeller: req.IsSeller,
	})
	if err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success(c, http.StatusOK, application.NewUserView(u, ""), "User Updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, userNotFound)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User Deleted", nil)
}
