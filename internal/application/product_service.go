package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

const placeholderImage = "/images/p10.jpg"

type ProductService struct {
	Repo           repo.ProductRepository
	Objects        ObjectStore
	Jobs           JobDispatcher
	Logger         *logrus.Logger
	PageSize       int
	SellerPageSize int

	signer imageSigner
}

func NewProductService(repo repo.ProductRepository, objects ObjectStore, jobs JobDispatcher, logger *logrus.Logger, urlTTL time.Duration, pageSize, sellerPageSize int) *ProductService {
	return &ProductService{
		Repo:           repo,
		Objects:        objects,
		Jobs:           jobs,
		Logger:         logger,
		PageSize:       pageSize,
		SellerPageSize: sellerPageSize,
		signer:         imageSigner{objects: objects, ttl: urlTTL, logger: logger},
	}
}

type ProductQuery struct {
	Name     string
	Category string
	Order    string
	Page     int
}

// Upload is an image file received with a product update.
type Upload struct {
	Body        io.Reader
	ContentType string
}

type ProductUpdateInput struct {
	Name         string
	Price        float64
	Brand        string
	Category     string
	Description  string
	CountInStock int
	Image        *Upload
	ImageZoomed  *Upload
}

func (s *ProductService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	return s.page(ctx, repo.ProductFilter{
		Name:     strings.TrimSpace(q.Name),
		Category: strings.TrimSpace(q.Category),
		Sort:     repo.ParseProductSort(q.Order),
	}, q.Page, s.PageSize)
}

func (s *ProductService) SellerCatalog(ctx context.Context, sellerID string, page int) (*ProductPage, error) {
	return s.page(ctx, repo.ProductFilter{Seller: sellerID}, page, s.SellerPageSize)
}

func (s *ProductService) page(ctx context.Context, f repo.ProductFilter, page, size int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.Repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	f.Skip = helpers.Offset(page, size)
	f.Limit = size
	items, err := s.Repo.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(items))
	for i := range items {
		views = append(views, s.signer.view(&items[i]))
	}
	return &ProductPage{Products: views, Page: page, TotalPages: helpers.TotalPages(total, size)}, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.Repo.DistinctCategories(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*ProductView, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.signer.view(p)
	return &v, nil
}

// CreateSample inserts a placeholder product for an admin to edit afterwards.
func (s *ProductService) CreateSample(ctx context.Context, sellerID string) (*ProductView, error) {
	p := &entity.Product{
		Name:        fmt.Sprintf("Sample Name%d", time.Now().UnixMilli()),
		Image:       placeholderImage,
		ImageZoomed: placeholderImage,
		Brand:       "Sample Brand",
		Category:    "Sample Category",
		Description: "Sample Description",
		Seller:      sellerID,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	v := s.signer.view(p)
	return &v, nil
}

// Update uploads any new images under fresh keys, then writes the product only
// if nobody changed it since it was read. Images that were replaced are
// scheduled for deletion; images uploaded for a failed write are removed again.
func (s *ProductService) Update(ctx context.Context, id string, in ProductUpdateInput) (*ProductView, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var uploaded, replaced []string
	if in.Image != nil {
		key, err := s.put(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, key)
		replaced = append(replaced, p.Image)
		p.Image = key
	}
	if in.ImageZoomed != nil {
		key, err := s.put(ctx, in.ImageZoomed)
		if err != nil {
			s.scheduleDeletes(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, key)
		replaced = append(replaced, p.ImageZoomed)
		p.ImageZoomed = key
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.Brand = in.Brand
	p.Category = in.Category
	p.Description = in.Description
	p.CountInStock = in.CountInStock

	if err := s.Repo.Update(ctx, p); err != nil {
		s.scheduleDeletes(ctx, uploaded)
		return nil, err
	}
	s.scheduleDeletes(ctx, replaced)

	v := s.signer.view(p)
	return &v, nil
}

func (s *ProductService) put(ctx context.Context, u *Upload) (string, error) {
	if s.Objects == nil {
		return "", &StorageError{Op: "put", Err: ErrNoObjectStore}
	}
	key, err := helpers.NewObjectKey()
	if err != nil {
		return "", err
	}
	if err := s.Objects.Put(ctx, key, u.Body, u.ContentType); err != nil {
		return "", &StorageError{Op: "put", Key: key, Err: err}
	}
	return key, nil
}

// Delete removes the record first; its images are deleted in the background.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.scheduleDeletes(ctx, []string{p.Image, p.ImageZoomed})
	return nil
}

func (s *ProductService) scheduleDeletes(ctx context.Context, keys []string) {
	for _, key := range keys {
		if !isStorageKey(key) {
			continue
		}
		if err := s.Jobs.Dispatch(ctx, Job{Type: JobObjectDelete, ObjectKey: key}); err != nil {
			objectDeleteFailed.Add(1)
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("object_key", key).Error("dispatch object delete failed")
			}
		}
	}
}
