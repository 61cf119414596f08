package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

const productColumns = `id, name, image, image_zoomed, brand, category, description, price,
	count_in_stock, rating, num_reviews, seller_id, version, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	var seller *string
	if err := row.Scan(&p.ID, &p.Name, &p.Image, &p.ImageZoomed, &p.Brand, &p.Category, &p.Description,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &seller, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Seller = deref(seller)
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, image, image_zoomed, brand, category, description, price,
		                      count_in_stock, rating, num_reviews, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, version, created_at, updated_at
	`, p.Name, p.Image, p.ImageZoomed, p.Brand, p.Category, p.Description, p.Price,
		p.CountInStock, p.Rating, p.NumReviews, nullable(p.Seller))

	return mapErr(row.Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) Find(ctx context.Context, f repository.ProductFilter) ([]entity.Product, error) {
	where, args := productWhere(f)
	q := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY ` + productOrder(f.Sort)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Skip > 0 {
		args = append(args, f.Skip)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Count(ctx context.Context, f repository.ProductFilter) (int64, error) {
	where, args := productWhere(f)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&n)
	return n, err
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	if !validID(p.ID) {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, image = $2, image_zoomed = $3, brand = $4, category = $5, description = $6,
		    price = $7, count_in_stock = $8, rating = $9, num_reviews = $10, seller_id = $11,
		    version = version + 1, updated_at = now()
		WHERE id = $12 AND version = $13
		RETURNING version, updated_at
	`, p.Name, p.Image, p.ImageZoomed, p.Brand, p.Category, p.Description,
		p.Price, p.CountInStock, p.Rating, p.NumReviews, nullable(p.Seller), p.ID, p.Version)

	err := mapErr(row.Scan(&p.Version, &p.UpdatedAt))
	if errors.Is(err, repository.ErrNotFound) {
		return r.missingOrStale(ctx, p.ID)
	}
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET count_in_stock = count_in_stock - $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND count_in_stock >= $2
	`, id, qty)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrInsufficientStock
	}
	return repository.ErrNotFound
}

func (r *ProductRepository) missingOrStale(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrStaleVersion
	}
	return repository.ErrNotFound
}

func productWhere(f repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		conds = append(conds, `name ILIKE $`+strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, `category = $`+strconv.Itoa(len(args)))
	}
	if f.Seller != "" {
		args = append(args, f.Seller)
		conds = append(conds, `seller_id = $`+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

// productOrder always ends with seq DESC so that pages never overlap.
func productOrder(s repository.ProductSort) string {
	switch s {
	case repository.SortLowest:
		return `price ASC, seq DESC`
	case repository.SortHighest:
		return `price DESC, seq DESC`
	default:
		return `seq DESC`
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
