package application

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
)

type UserView struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	IsSeller bool   `json:"isSeller"`
	Token    string `json:"token,omitempty"`
}

func NewUserView(u *entity.User, token string) UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		IsSeller: u.IsSeller,
		Token:    token,
	}
}

// ProductView is a product as returned to clients, with freshly signed image URLs.
type ProductView struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	ImageZoomed    string    `json:"imageZoomed"`
	ImageURL       string    `json:"imageURL"`
	ImageZoomedURL string    `json:"imageZoomedURL"`
	Brand          string    `json:"brand"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	CountInStock   int       `json:"countInStock"`
	Rating         float64   `json:"rating"`
	NumReviews     int       `json:"numReviews"`
	Seller         string    `json:"seller,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ProductPage struct {
	Products   []ProductView `json:"products"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// imageSigner turns stored image identifiers into client URLs at read time.
type imageSigner struct {
	objects ObjectStore
	ttl     time.Duration
	logger  *logrus.Logger
}

// isStorageKey is false for legacy static paths such as "/images/p10.jpg".
func isStorageKey(image string) bool {
	return image != "" && !strings.HasPrefix(image, "/")
}

func (s imageSigner) url(image string) string {
	if !isStorageKey(image) {
		return image
	}
	if s.objects == nil {
		return ""
	}
	u, err := s.objects.SignedReadURL(image, s.ttl)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("object_key", image).Warn("sign image url failed")
		}
		return ""
	}
	return u
}

func (s imageSigner) view(p *entity.Product) ProductView {
	return ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Image:          p.Image,
		ImageZoomed:    p.ImageZoomed,
		ImageURL:       s.url(p.Image),
		ImageZoomedURL: s.url(p.ImageZoomed),
		Brand:          p.Brand,
		Category:       p.Category,
		Description:    p.Description,
		Price:          p.Price,
		CountInStock:   p.CountInStock,
		Rating:         p.Rating,
		NumReviews:     p.NumReviews,
		Seller:         p.Seller,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
