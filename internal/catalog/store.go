// Package catalog is a SQLite-backed product catalog and opportunity store.
// It serves the REST API the picker client talks to.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gravitrone/picker/internal/api"
)

// ErrNotFound is returned when a product or opportunity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps input rejected by the store.
var ErrInvalid = errors.New("invalid input")

// Product is the stored form of api.Product.
type Product struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Country     string `gorm:"index"`
	RecordType  string `gorm:"index"`
	Price       *float64
	Description string
	ProductCode string
	Active      bool `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Opportunity is the stored form of api.Opportunity.
type Opportunity struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AccountID string `gorm:"index"`
	Amount    float64
	Stage     string
	LineItems []OpportunityLineItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// OpportunityLineItem links one product to an opportunity.
type OpportunityLineItem struct {
	ID            uint   `gorm:"primarykey"`
	OpportunityID string `gorm:"index;not null"`
	ProductID     string `gorm:"index;not null"`
	Position      int
	UnitPrice     float64
}

// Store is the catalog database.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	if err := db.AutoMigrate(&Product{}, &Opportunity{}, &OpportunityLineItem{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Upsert inserts or replaces products.
func (s *Store) Upsert(products ...Product) error {
	if len(products) == 0 {
		return nil
	}
	return s.db.Save(&products).Error
}

// QueryProducts returns one page of products ordered by name. page is 1-based.
func (s *Store) QueryProducts(filter api.ProductFilter, pageNum, pageSize int) (*api.ProductPage, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page_size must be positive", ErrInvalid)
	}

	f := filter.Normalized()
	q := s.db.Model(&Product{}).Where("active = ?", true)
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.Type != "" {
		q = q.Where("record_type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	page := &api.ProductPage{
		Records:      []api.Product{},
		TotalRecords: int(total),
		TotalPages:   totalPages,
		Page:         pageNum,
		PageSize:     pageSize,
	}
	// Nothing past the last page, and the offset below cannot overflow.
	if pageNum > totalPages {
		return page, nil
	}

	var rows []Product
	err := q.Order("name ASC").Order("id ASC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	page.Records = make([]api.Product, len(rows))
	for i, row := range rows {
		page.Records[i] = row.toAPI()
	}
	return page, nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(id string) (*api.Product, error) {
	var row Product
	err := s.db.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := row.toAPI()
	return &p, nil
}

// Countries returns the distinct countries of active products, sorted.
func (s *Store) Countries() ([]api.PicklistValue, error) {
	var countries []string
	err := s.db.Model(&Product{}).
		Where("active = ? AND country <> ''", true).
		Distinct().
		Order("country ASC").
		Pluck("country", &countries).Error
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	values := make([]api.PicklistValue, len(countries))
	for i, c := range countries {
		values[i] = api.PicklistValue{Label: c, Value: c}
	}
	return values, nil
}

// CreateOpportunity stores a new opportunity with one line item per distinct product.
func (s *Store) CreateOpportunity(input api.CreateOpportunityInput) (*api.Opportunity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	ids := dedupe(input.ProductIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", ErrInvalid)
	}

	opp := Opportunity{
		ID:        uuid.NewString(),
		Name:      name,
		AccountID: strings.TrimSpace(input.AccountID),
		Stage:     "Prospecting",
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var products []Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[string]Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for i, id := range ids {
			p, ok := byID[id]
			if !ok {
				return fmt.Errorf("product %s: %w", id, ErrNotFound)
			}
			price := 0.0
			if p.Price != nil {
				price = *p.Price
			}
			opp.Amount += price
			opp.LineItems = append(opp.LineItems, OpportunityLineItem{
				ProductID: id,
				Position:  i,
				UnitPrice: price,
			})
		}
		return tx.Create(&opp).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	out := opp.toAPI()
	return &out, nil
}

// GetOpportunity returns one opportunity with its product ids in line order.
func (s *Store) GetOpportunity(id string) (*api.Opportunity, error) {
	var opp Opportunity
	err := s.db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", id).Take(&opp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	out := opp.toAPI()
	return &out, nil
}

func (p Product) toAPI() api.Product {
	return api.Product{
		ID:          p.ID,
		Name:        p.Name,
		Country:     p.Country,
		RecordType:  p.RecordType,
		Price:       p.Price,
		Description: p.Description,
		ProductCode: p.ProductCode,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (o Opportunity) toAPI() api.Opportunity {
	ids := make([]string, len(o.LineItems))
	for i, li := range o.LineItems {
		ids[i] = li.ProductID
	}
	return api.Opportunity{
		ID:         o.ID,
		Name:       o.Name,
		AccountID:  o.AccountID,
		ProductIDs: ids,
		Amount:     o.Amount,
		Stage:      o.Stage,
		CreatedAt:  o.CreatedAt,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
