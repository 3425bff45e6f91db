package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"melodix/internal/apperrors"
	"melodix/internal/db"
	"melodix/internal/models"

	"github.com/rs/zerolog"
)

const productColumns = "id, brand, model, slug, id_category, price, monthly, badge, image, " +
	"description, specifications, category_name, category_slug, available_stock"

// ProductService reads the catalog through the products_with_stock view.
// Every filter value travels as a bind parameter.
type ProductService struct {
	db      *sql.DB
	dialect db.Dialect
	logger  zerolog.Logger
}

func NewProductService(conn *sql.DB, dialect db.Dialect, logger zerolog.Logger) *ProductService {
	return &ProductService{
		db:      conn,
		dialect: dialect,
		logger:  logger,
	}
}

func (s *ProductService) ListProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	query, args := buildListQuery(s.dialect, filters)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching products")
		return nil, apperrors.Internal("failed to fetch products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error scanning product")
			return nil, apperrors.Internal("failed to fetch products", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("Error iterating products")
		return nil, apperrors.Internal("failed to fetch products", err)
	}

	return products, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products_with_stock WHERE slug = " + s.dialect.Placeholder(1)
	return s.getOne(ctx, query, slug)
}

func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products_with_stock WHERE id = " + s.dialect.Placeholder(1)
	return s.getOne(ctx, query, id)
}

func (s *ProductService) getOne(ctx context.Context, query string, arg interface{}) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Interface("key", arg).Msg("Error fetching product")
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	return p, nil
}

// buildListQuery turns the filters into SQL plus arguments. Category is an
// exact slug match; search is a case-insensitive substring match over brand,
// model and description, AND'ed with the category.
func buildListQuery(d db.Dialect, f models.ProductFilters) (string, []interface{}) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	bind := func(v interface{}) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	sb.WriteString("SELECT " + productColumns + " FROM products_with_stock WHERE 1=1")

	if category := strings.TrimSpace(f.Category); category != "" {
		sb.WriteString(" AND category_slug = " + bind(category))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		sb.WriteString(" AND (LOWER(brand) LIKE " + bind(pattern))
		sb.WriteString(" OR LOWER(model) LIKE " + bind(pattern))
		sb.WriteString(" OR LOWER(COALESCE(description, '')) LIKE " + bind(pattern) + ")")
	}

	sb.WriteString(" ORDER BY brand, model, id")
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p           models.Product
		monthly     sql.NullFloat64
		badge       sql.NullString
		image       sql.NullString
		description sql.NullString
		specs       []byte
	)

	err := row.Scan(
		&p.ID, &p.Brand, &p.Model, &p.Slug, &p.CategoryID, &p.Price, &monthly, &badge, &image,
		&description, &specs, &p.CategoryName, &p.Category, &p.AvailableStock,
	)
	if err != nil {
		return nil, err
	}

	// No installment plan is stored as 0 or NULL; both read as absent.
	if monthly.Valid && monthly.Float64 != 0 {
		v := monthly.Float64
		p.Monthly = &v
	}
	if badge.Valid && badge.String != "" {
		v := badge.String
		p.Badge = &v
	}
	p.Image = image.String
	p.Description = description.String
	p.Specifications = specificationsJSON(specs)

	return &p, nil
}

// specificationsJSON passes JSON columns through untouched and wraps plain
// text as a JSON string.
func specificationsJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(raw) {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return json.RawMessage("null")
	}
	return quoted
}
