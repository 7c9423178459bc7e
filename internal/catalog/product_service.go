// Package catalog manages the eyeglasses and sunglasses on sale and the
// frame images used by the virtual try-on.
package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"aheyecare/internal/common"
	"aheyecare/internal/dbmysql"
	"aheyecare/internal/logging"
	"aheyecare/internal/storage"
)

const (
	// ImageURLPrefix is where ImageStore contents are served.
	ImageURLPrefix = "/static/pics/"

	latestLimit  = 4
	similarLimit = 4
	searchLimit  = 10
	minQueryLen  = 2
)

var frameExts = []string{".png", ".jpg", ".jpeg"}

// ImageStore keeps product images and lists them for the try-on page.
type ImageStore interface {
	storage.Storage
	List(ctx context.Context, exts ...string) ([]string, error)
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ProductType string
}

type ProductDetail struct {
	Product *dbmysql.Product   `json:"product"`
	Similar []*dbmysql.Product `json:"similar_products"`
}

type Frame struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type ProductService interface {
	List(ctx context.Context) ([]*dbmysql.Product, error)
	Latest(ctx context.Context) ([]*dbmysql.Product, error)
	Get(ctx context.Context, id uint) (*ProductDetail, error)
	Search(ctx context.Context, query string) ([]*dbmysql.Product, error)
	Create(ctx context.Context, in ProductInput, image io.Reader, filename string) (*dbmysql.Product, error)
	Delete(ctx context.Context, id uint) error
	Frames(ctx context.Context) ([]Frame, error)
}

type productService struct {
	repo   ProductRepository
	images ImageStore
}

func NewProductService(repo ProductRepository, images ImageStore) ProductService {
	return &productService{repo: repo, images: images}
}

func (s *productService) List(ctx context.Context) ([]*dbmysql.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.Persistence("failed to list products", err)
	}
	return nonNil(products), nil
}

func (s *productService) Latest(ctx context.Context) ([]*dbmysql.Product, error) {
	products, err := s.repo.Latest(ctx, latestLimit)
	if err != nil {
		return nil, common.Persistence("failed to list products", err)
	}
	return nonNil(products), nil
}

func (s *productService) Get(ctx context.Context, id uint) (*ProductDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, common.NotFound("product not found")
		}
		return nil, common.Persistence("failed to load product", err)
	}

	similar, err := s.repo.Similar(ctx, p, similarLimit)
	if err != nil {
		return nil, common.Persistence("failed to load similar products", err)
	}
	return &ProductDetail{Product: p, Similar: nonNil(similar)}, nil
}

// Search returns nothing for queries shorter than two characters.
func (s *productService) Search(ctx context.Context, query string) ([]*dbmysql.Product, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return []*dbmysql.Product{}, nil
	}
	products, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, common.Persistence("failed to search products", err)
	}
	return nonNil(products), nil
}

func (s *productService) Create(ctx context.Context, in ProductInput, image io.Reader, filename string) (*dbmysql.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Name == "":
		return nil, common.Validation("name is required")
	case in.Description == "":
		return nil, common.Validation("description is required")
	case in.Price < 0:
		return nil, common.Validation("price must not be negative")
	case !dbmysql.ValidProductType(in.ProductType):
		return nil, common.Validation("product type must be eyeglasses or sunglasses")
	case image == nil || strings.TrimSpace(filename) == "":
		return nil, common.Validation("image is required")
	}

	br := bufio.NewReader(image)
	if _, err := br.Peek(1); err != nil {
		return nil, common.Validation("image is required")
	}

	key := common.SanitizeFilename(filename)
	if !hasFrameExt(key) {
		return nil, common.Validation("image must be png or jpeg")
	}
	if _, err := s.images.Write(ctx, key, br, common.ContentTypeFor(key)); err != nil {
		return nil, common.Persistence("failed to store image", err)
	}

	p := &dbmysql.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    ImageURLPrefix + key,
		ProductType: in.ProductType,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, common.Persistence("failed to save product", err)
	}

	logging.Ctx(ctx).Info().Uint("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Delete removes the product row. The image stays, it may be a try-on frame.
func (s *productService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return common.NotFound("product not found")
		}
		return common.Persistence("failed to delete product", err)
	}
	logging.Ctx(ctx).Info().Uint("product_id", id).Msg("product deleted")
	return nil
}

func (s *productService) Frames(ctx context.Context) ([]Frame, error) {
	keys, err := s.images.List(ctx, frameExts...)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	frames := make([]Frame, 0, len(keys))
	for _, k := range keys {
		frames = append(frames, Frame{
			Name:     strings.TrimSuffix(k, filepath.Ext(k)),
			ImageURL: ImageURLPrefix + k,
		})
	}
	return frames, nil
}

func hasFrameExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range frameExts {
		if ext == e {
			return true
		}
	}
	return false
}

func nonNil(products []*dbmysql.Product) []*dbmysql.Product {
	if products == nil {
		return []*dbmysql.Product{}
	}
	return products
}
