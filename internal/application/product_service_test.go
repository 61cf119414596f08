package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/internal/infrastructure/memstore"
)

type ProductServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memstore.ProductRepository
	objects *fakeObjectStore
	jobs    *recordingDispatcher
	svc     *ProductService
}

func (s *ProductServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memstore.NewProductRepository(memstore.New())
	s.objects = newFakeObjectStore()
	s.jobs = &recordingDispatcher{}
	s.svc = NewProductService(s.repo, s.objects, s.jobs, nil, time.Hour, 6, 12)
}

func (s *ProductServiceSuite) create(p entity.Product) *entity.Product {
	s.Require().NoError(s.repo.Create(s.ctx, &p))
	return &p
}

func (s *ProductServiceSuite) TestEightShirtsLowestFirst() {
	prices := []float64{40, 15, 25, 10, 35, 20, 30, 5}
	for i, price := range prices {
		s.create(entity.Product{Name: fmt.Sprintf("Shirt %d", i), Category: "Shirts", Price: price})
	}
	s.create(entity.Product{Name: "Jeans", Category: "Pants", Price: 1})

	page, err := s.svc.List(s.ctx, ProductQuery{Category: "Shirts", Order: "lowest", Page: 1})
	s.Require().NoError(err)
	s.Equal(1, page.Page)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Products, 6)
	for i := 1; i < len(page.Products); i++ {
		s.LessOrEqual(page.Products[i-1].Price, page.Products[i].Price)
	}
	s.Equal(5.0, page.Products[0].Price)

	second, err := s.svc.List(s.ctx, ProductQuery{Category: "Shirts", Order: "lowest", Page: 2})
	s.Require().NoError(err)
	s.Len(second.Products, 2)
	s.Equal(40.0, second.Products[1].Price)
}

func (s *ProductServiceSuite) TestPageBelowOneIsFirstPage() {
	s.create(entity.Product{Name: "A"})
	page, err := s.svc.List(s.ctx, ProductQuery{Page: 0})
	s.Require().NoError(err)
	s.Equal(1, page.Page)
	s.Len(page.Products, 1)
}

func (s *ProductServiceSuite) TestSellerCatalogUsesLargerPages() {
	for i := 0; i < 14; i++ {
		s.create(entity.Product{Name: fmt.Sprintf("P%d", i), Seller: "seller-1"})
	}
	s.create(entity.Product{Name: "Other", Seller: "seller-2"})

	page, err := s.svc.SellerCatalog(s.ctx, "seller-1", 1)
	s.Require().NoError(err)
	s.Len(page.Products, 12)
	s.Equal(2, page.TotalPages)
}

func (s *ProductServiceSuite) TestViewSignsStorageKeysOnly() {
	p := s.create(entity.Product{Name: "Cap", Image: "abc123", ImageZoomed: "/images/p10.jpg"})

	v, err := s.svc.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("https://signed.test/abc123", v.ImageURL)
	s.Equal("/images/p10.jpg", v.ImageZoomedURL)
	s.Equal("abc123", v.Image)
}

func (s *ProductServiceSuite) TestGetMissing() {
	_, err := s.svc.Get(s.ctx, "missing")
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *ProductServiceSuite) TestCreateSample() {
	v, err := s.svc.CreateSample(s.ctx, "admin-1")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(v.Name, "Sample Name"))
	s.Equal("/images/p10.jpg", v.Image)
	s.Equal("/images/p10.jpg", v.ImageURL)
	s.Zero(v.Price)
	s.Zero(v.CountInStock)
	s.Equal("admin-1", v.Seller)
}

func (s *ProductServiceSuite) TestUpdateUploadsAndSchedulesReplacedObjects() {
	p := s.create(entity.Product{Name: "Old", Image: "old-key", ImageZoomed: "/images/legacy.jpg"})

	v, err := s.svc.Update(s.ctx, p.ID, ProductUpdateInput{
		Name:         "New",
		Price:        12.5,
		Brand:        "B",
		Category:     "C",
		Description:  "D",
		CountInStock: 7,
		Image:        &Upload{Body: strings.NewReader("png"), ContentType: "image/png"},
		ImageZoomed:  &Upload{Body: strings.NewReader("png2"), ContentType: "image/png"},
	})
	s.Require().NoError(err)
	s.Equal("New", v.Name)
	s.Equal(7, v.CountInStock)
	s.Len(v.Image, 64)
	s.NotEqual(v.Image, v.ImageZoomed)
	s.Equal("https://signed.test/"+v.Image, v.ImageURL)
	s.Contains(s.objects.objects, v.Image)

	jobs := s.jobs.dispatched()
	s.Require().Len(jobs, 1, "legacy static paths are never deleted from the bucket")
	s.Equal(Job{Type: JobObjectDelete, ObjectKey: "old-key"}, jobs[0])

	stored, err := s.repo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Version)
}

func (s *ProductServiceSuite) TestUpdateUploadFailureIsStorageError() {
	p := s.create(entity.Product{Name: "Old", Image: "old-key"})
	s.objects.putErr = errBoom

	_, err := s.svc.Update(s.ctx, p.ID, ProductUpdateInput{
		Name:  "New",
		Image: &Upload{Body: strings.NewReader("x")},
	})
	var se *StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal("put", se.Op)

	stored, _ := s.repo.GetByID(s.ctx, p.ID)
	s.Equal("Old", stored.Name)
	s.Equal("old-key", stored.Image)
}

func (s *ProductServiceSuite) TestUpdateDuplicateNameCleansUpUpload() {
	s.create(entity.Product{Name: "Taken"})
	p := s.create(entity.Product{Name: "Mine", Image: "old-key"})

	_, err := s.svc.Update(s.ctx, p.ID, ProductUpdateInput{
		Name:  "Taken",
		Image: &Upload{Body: strings.NewReader("x")},
	})
	s.ErrorIs(err, repo.ErrConflict)

	jobs := s.jobs.dispatched()
	s.Require().Len(jobs, 1)
	s.NotEqual("old-key", jobs[0].ObjectKey, "the fresh upload is removed, the current image stays")
}

func (s *ProductServiceSuite) TestDeleteSchedulesObjectDeletes() {
	p := s.create(entity.Product{Name: "Gone", Image: "k1", ImageZoomed: "k2"})

	s.Require().NoError(s.svc.Delete(s.ctx, p.ID))
	_, err := s.repo.GetByID(s.ctx, p.ID)
	s.ErrorIs(err, repo.ErrNotFound)

	keys := []string{}
	for _, j := range s.jobs.dispatched() {
		keys = append(keys, j.ObjectKey)
	}
	s.ElementsMatch([]string{"k1", "k2"}, keys)

	s.ErrorIs(s.svc.Delete(s.ctx, p.ID), repo.ErrNotFound)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func TestProductViewWithoutObjectStore(t *testing.T) {
	products := memstore.NewProductRepository(memstore.New())
	p := &entity.Product{Name: "Hat", Image: "key", ImageZoomed: "/images/p1.jpg"}
	require.NoError(t, products.Create(context.Background(), p))

	svc := NewProductService(products, nil, &recordingDispatcher{}, nil, time.Hour, 6, 12)
	v, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, v.ImageURL)
	assert.Equal(t, "/images/p1.jpg", v.ImageZoomedURL)

	_, err = svc.Update(context.Background(), p.ID, ProductUpdateInput{Name: "Hat", Image: &Upload{Body: strings.NewReader("x")}})
	assert.ErrorIs(t, err, ErrNoObjectStore)
}
