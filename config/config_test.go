package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PRODUCTS_PAGE_SIZE", "")
	t.Setenv("STORAGE_URL_TTL", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 6, cfg.ProductsPageSize)
	assert.Equal(t, 12, cfg.SellerPageSize)
	assert.Equal(t, time.Hour, cfg.StorageURLTTL)
}

func TestLoadOverridesAndBadValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("PRODUCTS_PAGE_SIZE", "twelve")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MAIL_SEND_ENABLED", "nope")

	cfg := Load()
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 6, cfg.ProductsPageSize, "invalid int falls back to default")
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestPostgresDSNAndLists(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable",
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
