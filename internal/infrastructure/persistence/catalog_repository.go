package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupRepository implements catalog.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByGUID finds a group by its ledger GUID
func (r *GormGroupRepository) FindByGUID(ctx context.Context, guid string) (*catalog.ProductGroup, error) {
	var group catalog.ProductGroup
	if err := conn(ctx, r.db).First(&group, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// Save creates or updates a group
func (r *GormGroupRepository) Save(ctx context.Context, group *catalog.ProductGroup) error {
	return conn(ctx, r.db).Save(group).Error
}

// GormUnitRepository implements catalog.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByGUID finds a unit by its ledger GUID
func (r *GormUnitRepository) FindByGUID(ctx context.Context, guid string) (*catalog.Unit, error) {
	var unit catalog.Unit
	if err := conn(ctx, r.db).First(&unit, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	return conn(ctx, r.db).Save(unit).Error
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its local ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := conn(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByGUID finds a product by its ledger GUID
func (r *GormProductRepository) FindByGUID(ctx context.Context, guid string) (*catalog.Product, error) {
	var product catalog.Product
	if err := conn(ctx, r.db).First(&product, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

// GormPackageRepository implements catalog.PackageRepository using GORM
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID finds a package by its local ID
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductPackage, error) {
	var pkg catalog.ProductPackage
	if err := conn(ctx, r.db).First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// FindByProduct returns all packages of a product
func (r *GormPackageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductPackage, error) {
	var packages []catalog.ProductPackage
	if err := conn(ctx, r.db).
		Where("product_id = ?", productID).
		Order("is_default DESC, name ASC").
		Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

// ReplaceForProduct deletes the product's packages and inserts the given set
func (r *GormPackageRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, packages []*catalog.ProductPackage) error {
	db := conn(ctx, r.db)
	if err := db.Delete(&catalog.ProductPackage{}, "product_id = ?", productID).Error; err != nil {
		return err
	}
	if len(packages) == 0 {
		return nil
	}
	return db.Create(packages).Error
}

var (
	_ catalog.GroupRepository   = (*GormGroupRepository)(nil)
	_ catalog.UnitRepository    = (*GormUnitRepository)(nil)
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.PackageRepository = (*GormPackageRepository)(nil)
)
