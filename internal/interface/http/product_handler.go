package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
	"github.com/oksasatya/go-ecommerce-backend/pkg/validation"
)

const productNotFound = "Product Not Found"

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type updateProductRequest struct {
	Name         string  `json:"name" form:"name" binding:"required"`
	Price        float64 `json:"price" form:"price" binding:"money"`
	Brand        string  `json:"brand" form:"brand"`
	Category     string  `json:"category" form:"category"`
	Description  string  `json:"description" form:"description"`
	CountInStock int     `json:"countInStock" form:"countInStock" binding:"gte=0"`
}

func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), application.ProductQuery{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Order:    c.Query("order"),
		Page:     helpers.ParsePage(c.Query("pageNumber")),
	})
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusOK, page, "products", nil)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusOK, categories, "categories", nil)
}

func (h *ProductHandler) SellerCatalog(c *gin.Context) {
	page, err := h.Svc.SellerCatalog(c.Request.Context(), c.Param("id"), helpers.ParsePage(c.Query("pageNumber")))
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusOK, page, "products", nil)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *ProductHandler) Create(c *gin.Context) {
	p, err := h.Svc.CreateSample(c.Request.Context(), identity(c).UserID)
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": p}, "Product Created", nil)
}

// Update accepts multipart/form-data with optional "image" and "imageZoomed"
// files, or a plain JSON body without files.
func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	multi := strings.HasPrefix(c.ContentType(), "multipart/")
	var err error
	if multi {
		err = c.ShouldBindWith(&req, binding.FormMultipart)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.ProductUpdateInput{
		Name:         req.Name,
		Price:        req.Price,
		Brand:        req.Brand,
		Category:     req.Category,
		Description:  req.Description,
		CountInStock: req.CountInStock,
	}
	if multi {
		var closers []multipart.File
		defer func() {
			for _, f := range closers {
				_ = f.Close()
			}
		}()
		for field, dst := range map[string]**application.Upload{"image": &in.Image, "imageZoomed": &in.ImageZoomed} {
			fh, err := c.FormFile(field)
			if err != nil {
				continue
			}
			f, err := fh.Open()
			if err != nil {
				response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{field: "cannot read file"})
				return
			}
			closers = append(closers, f)
			*dst = &application.Upload{Body: f, ContentType: fh.Header.Get("Content-Type")}
		}
	}

	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "Product Updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, productNotFound)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Product Deleted", nil)
}
