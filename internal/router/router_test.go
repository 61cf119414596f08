package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-ecommerce-backend/config"
	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/internal/container"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-backend/pkg/validation"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memObjects) SignedReadURL(key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memObjects) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type APISuite struct {
	suite.Suite
	ctx        context.Context
	app        *container.Container
	engine     *gin.Engine
	objects    *memObjects
	adminToken string
	userToken  string
	userID     string
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func (s *APISuite) SetupTest() {
	s.ctx = context.Background()
	cfg := &config.Config{
		JWTSecret:           "test-secret",
		JWTTTL:              time.Hour,
		StorageURLTTL:       time.Hour,
		ProductsPageSize:    6,
		SellerPageSize:      12,
		JobMaxAttempts:      3,
		CORSAllowedOrigins:  "*",
		UploadsDir:          s.T().TempDir(),
		DebugMetricsEnabled: true,
		ESUsersIndex:        "users",
	}
	s.objects = &memObjects{objects: make(map[string][]byte)}
	s.app = container.Assemble(cfg, helpers.NewLogger("test", "test"), container.Infra{
		Stores:  container.MemoryStores(),
		Objects: s.objects,
	})
	s.engine = NewEngine(s.app)

	admin, err := s.app.UserService.Register(s.ctx, application.RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "admin"})
	s.Require().NoError(err)
	yes := true
	_, err = s.app.UserService.AdminUpdate(s.ctx, admin.User.ID, application.AdminUpdateInput{IsAdmin: &yes})
	s.Require().NoError(err)
	signed, err := s.app.UserService.SignIn(s.ctx, "admin@example.com", "admin")
	s.Require().NoError(err)
	s.adminToken = signed.Token

	user, err := s.app.UserService.Register(s.ctx, application.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.userToken = user.Token
	s.userID = user.User.ID
}

func (s *APISuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.app.Close(ctx)
}

func (s *APISuite) request(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

func (s *APISuite) serve(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *APISuite) createProduct(p entity.Product) *entity.Product {
	s.Require().NoError(s.app.Stores.Products.Create(s.ctx, &p))
	return &p
}

func (s *APISuite) TestHealthAndNoRoute() {
	w, env := s.request(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)

	w, env = s.request(http.MethodGet, "/api/nothing-here", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.NotEmpty(env.Message)
}

func (s *APISuite) TestEightShirtsFirstPage() {
	prices := []float64{40, 15, 25, 10, 35, 20, 30, 5}
	for i, price := range prices {
		s.createProduct(entity.Product{Name: fmt.Sprintf("Shirt %d", i), Category: "Shirts", Price: price, Image: "/images/p1.jpg"})
	}
	s.createProduct(entity.Product{Name: "Jeans", Category: "Pants", Price: 1})

	w, env := s.request(http.MethodGet, "/api/products?category=Shirts&order=lowest&pageNumber=1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var page application.ProductPage
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.Equal(1, page.Page)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Products, 6)
	for i := 1; i < len(page.Products); i++ {
		s.LessOrEqual(page.Products[i-1].Price, page.Products[i].Price)
	}
	s.Equal("/images/p1.jpg", page.Products[0].ImageURL)
}

func (s *APISuite) TestProductPagePastEndIsEmpty() {
	for i := 0; i < 8; i++ {
		s.createProduct(entity.Product{Name: fmt.Sprintf("Sock %d", i), Category: "Socks"})
	}

	for _, pageNumber := range []string{"3", "9223372036854775807"} {
		w, env := s.request(http.MethodGet, "/api/products?category=Socks&pageNumber="+pageNumber, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var page application.ProductPage
		s.Require().NoError(json.Unmarshal(env.Data, &page))
		s.Empty(page.Products, "pageNumber=%s", pageNumber)
		s.Equal(2, page.TotalPages)
	}
}

func (s *APISuite) TestProductDetailAndCategories() {
	p := s.createProduct(entity.Product{Name: "Cap", Category: "Hats", Image: "key-1"})
	s.createProduct(entity.Product{Name: "Tee", Category: "Shirts"})

	w, env := s.request(http.MethodGet, "/api/products/"+p.ID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var view application.ProductView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal("https://storage.test/key-1?ttl=3600", view.ImageURL)

	w, env = s.request(http.MethodGet, "/api/products/does-not-exist", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Product Not Found", env.Message)

	w, env = s.request(http.MethodGet, "/api/products/category", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var categories []string
	s.Require().NoError(json.Unmarshal(env.Data, &categories))
	s.Equal([]string{"Hats", "Shirts"}, categories)
}

func (s *APISuite) TestProductAdminRoutes() {
	w, _ := s.request(http.MethodPost, "/api/products", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, env := s.request(http.MethodPost, "/api/products", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Admin access required", env.Message)

	w, env = s.request(http.MethodPost, "/api/products", s.adminToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created struct {
		Product application.ProductView `json:"product"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Contains(created.Product.Name, "Sample Name")

	w, env = s.request(http.MethodDelete, "/api/products/"+created.Product.ID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Product Deleted", env.Message)

	w, _ = s.request(http.MethodDelete, "/api/products/"+created.Product.ID, s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestProductUpdateRoundTripWithImage() {
	p := s.createProduct(entity.Product{Name: "Old", Image: "old-key", Category: "Hats"})
	s.objects.objects["old-key"] = []byte("old")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "New Hat", "price": "19.99", "brand": "Acme",
		"category": "Hats", "description": "Warm", "countInStock": "4",
	} {
		s.Require().NoError(mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", "hat.png")
	s.Require().NoError(err)
	_, _ = fw.Write([]byte("png-bytes"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+p.ID, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := s.serve(req, s.adminToken)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Product application.ProductView `json:"product"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &updated))
	s.Equal("New Hat", updated.Product.Name)
	s.Equal(19.99, updated.Product.Price)
	s.Equal(4, updated.Product.CountInStock)
	s.Len(updated.Product.Image, 64)
	s.True(s.objects.has(updated.Product.Image))

	w, env = s.request(http.MethodGet, "/api/products/"+p.ID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var fetched application.ProductView
	s.Require().NoError(json.Unmarshal(env.Data, &fetched))
	s.Equal(updated.Product.Image, fetched.Image)
	s.Equal("Warm", fetched.Description)

	s.Eventually(func() bool { return !s.objects.has("old-key") }, 2*time.Second, 10*time.Millisecond)
}

func (s *APISuite) TestProductUpdateValidation() {
	p := s.createProduct(entity.Product{Name: "Thing"})
	w, env := s.request(http.MethodPut, "/api/products/"+p.ID, s.adminToken, map[string]any{"price": -1})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(string(env.Error), "name")
	s.Contains(string(env.Error), "price")
}

func (s *APISuite) TestProductPriceReadsBackExactly() {
	p := s.createProduct(entity.Product{Name: "Pen"})

	for _, price := range []float64{19.999, 1e12} {
		w, _ := s.request(http.MethodPut, "/api/products/"+p.ID, s.adminToken, map[string]any{"name": "Pen", "price": price})
		s.Require().Equal(http.StatusOK, w.Code)

		w, env := s.request(http.MethodGet, "/api/products/"+p.ID, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var view application.ProductView
		s.Require().NoError(json.Unmarshal(env.Data, &view))
		s.Equal(price, view.Price)
	}
}

func (s *APISuite) TestSigninAndRegister() {
	w, env := s.request(http.MethodPost, "/api/user/signin", "", map[string]string{"email": "ann@example.com", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid Email or Password", env.Message)
	s.NotContains(w.Body.String(), "token\"")

	w, _ = s.request(http.MethodPost, "/api/user/signin", "", map[string]string{"email": "nobody@example.com", "password": "secret"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, env = s.request(http.MethodPost, "/api/user/signin", "", map[string]string{"email": "ann@example.com", "password": "secret"})
	s.Require().Equal(http.StatusOK, w.Code)
	var view application.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.NotEmpty(view.Token)
	s.Equal(s.userID, view.ID)

	w, env = s.request(http.MethodPost, "/api/user/register", "", map[string]string{"name": "Ann 2", "email": "ann@example.com", "password": "x"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("Email already exist", env.Message)

	users, err := s.app.UserService.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)

	w, _ = s.request(http.MethodPost, "/api/user/register", "", map[string]string{"name": "", "email": "bad", "password": ""})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestUserRoutesAuthorization() {
	w, _ := s.request(http.MethodGet, "/api/user", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, env := s.request(http.MethodGet, "/api/user", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var users []application.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &users))
	s.Len(users, 2)
	s.NotContains(w.Body.String(), "password")

	w, _ = s.request(http.MethodGet, "/api/user/"+s.userID, s.userToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.request(http.MethodGet, "/api/user/"+users[0].ID, s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, env = s.request(http.MethodGet, "/api/user/missing", s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User Not Found", env.Message)
}

func (s *APISuite) TestUpdateProfileUsesTokenIdentity() {
	w, env := s.request(http.MethodPut, "/api/user/profile", s.userToken, map[string]string{"name": "Annie", "userId": "someone-else"})
	s.Require().Equal(http.StatusOK, w.Code)
	var view application.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal(s.userID, view.ID)
	s.Equal("Annie", view.Name)
	s.NotEmpty(view.Token)
}

func (s *APISuite) TestUpdateProfileIgnoresPassword() {
	w, _ := s.request(http.MethodPut, "/api/user/profile", s.userToken, map[string]string{"name": "Annie", "password": "hijacked"})
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.request(http.MethodPost, "/api/user/signin", "", map[string]string{"email": "ann@example.com", "password": "secret"})
	s.Equal(http.StatusOK, w.Code, "old password still valid")
	w, _ = s.request(http.MethodPost, "/api/user/signin", "", map[string]string{"email": "ann@example.com", "password": "hijacked"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestAdminUpdateAndDeleteUser() {
	w, env := s.request(http.MethodPut, "/api/user/"+s.userID, s.adminToken, map[string]any{"name": "Ann B", "email": "ann@example.com", "isSeller": true})
	s.Require().Equal(http.StatusOK, w.Code)
	var view application.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.True(view.IsSeller)

	w, _ = s.request(http.MethodPut, "/api/user/"+s.userID, s.adminToken, map[string]any{"email": "admin@example.com"})
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.request(http.MethodDelete, "/api/user/"+s.userID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.request(http.MethodDelete, "/api/user/"+s.userID, s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestOrders() {
	p := s.createProduct(entity.Product{Name: "Shirt", Price: 10, CountInStock: 10})

	w, _ := s.request(http.MethodPost, "/api/orders", "", map[string]any{})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, env := s.request(http.MethodPost, "/api/orders", s.userToken, map[string]any{"orderItems": []any{}})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Cart is Empty", env.Message)

	w, env = s.request(http.MethodPost, "/api/orders", s.userToken, map[string]any{
		"orderItems": []map[string]any{
			{"productId": p.ID, "name": "Shirt", "quantity": 3, "price": 10},
		},
		"shippingAddress": map[string]string{"fullName": "Ann", "address": "1 Road", "city": "Oslo", "postalCode": "0150", "country": "NO"},
		"paymentMethod":   "PayPal",
		"totalPrice":      30,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("New Order Created", env.Message)
	var created struct {
		Order struct {
			ID   string `json:"_id"`
			User string `json:"user"`
		} `json:"order"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal(s.userID, created.Order.User)

	s.Eventually(func() bool {
		got, err := s.app.Stores.Products.GetByID(s.ctx, p.ID)
		return err == nil && got.CountInStock == 7
	}, 2*time.Second, 10*time.Millisecond)

	w, _ = s.request(http.MethodGet, "/api/orders/"+created.Order.ID, s.userToken, nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.request(http.MethodGet, "/api/orders/"+created.Order.ID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	w, env = s.request(http.MethodGet, "/api/orders/missing", s.userToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Order Not Found", env.Message)
}

func (s *APISuite) TestLocalUploadIsServedStatically() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	s.Require().NoError(err)
	_, _ = fw.Write([]byte("image-bytes"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := s.serve(req, s.userToken)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var path string
	s.Require().NoError(json.Unmarshal(env.Data, &path))
	s.Regexp(`^/uploads/\d+-[0-9a-f]{8}\.png$`, path)

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	s.Equal(http.StatusOK, w.Code)
	s.Equal("image-bytes", w.Body.String())
}

func (s *APISuite) TestDebugVars() {
	w, _ := s.request(http.MethodGet, "/api/debug/vars", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "orders_created")
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://shop.test"})
	require.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://shop.test"}, cfg.AllowOrigins)
}
