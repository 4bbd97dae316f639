package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/filter"
)

// Company represents a business offering services
type Company struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    string    `json:"category" db:"category"`
	Tags        JSONArray `json:"tags,omitempty" db:"tags"`
	City        *string   `json:"city,omitempty" db:"city"`
	Rating      *float64  `json:"rating,omitempty" db:"rating"`
	IsOpen      bool      `json:"isOpen" db:"is_open"`
	IsVerified  bool      `json:"isVerified" db:"is_verified"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (c Company) RecordID() string { return c.ID }

// Attr implements filter.Record
func (c Company) Attr(name string) (any, bool) {
	switch name {
	case "name":
		return c.Name, true
	case "description":
		return c.Description, c.Description != nil
	case "category":
		return c.Category, true
	case "categoryLabel":
		return filter.CategoryLabel(c.Category), true
	case "tags":
		return []string(c.Tags), c.Tags != nil
	case "city":
		return c.City, c.City != nil
	case "rating":
		return c.Rating, c.Rating != nil
	case "isOpen":
		return c.IsOpen, true
	case "isVerified":
		return c.IsVerified, true
	}
	return nil, false
}

// Professional represents an individual service provider
type Professional struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Bio         *string   `json:"bio,omitempty" db:"bio"`
	Specialty   string    `json:"specialty" db:"specialty"`
	City        *string   `json:"city,omitempty" db:"city"`
	Rating      *float64  `json:"rating,omitempty" db:"rating"`
	HourlyRate  *float64  `json:"hourlyRate,omitempty" db:"hourly_rate"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (p Professional) RecordID() string { return p.ID }

// Attr implements filter.Record
func (p Professional) Attr(name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "bio":
		return p.Bio, p.Bio != nil
	case "specialty":
		return p.Specialty, true
	case "specialtyLabel":
		return filter.CategoryLabel(p.Specialty), true
	case "city":
		return p.City, p.City != nil
	case "rating":
		return p.Rating, p.Rating != nil
	case "hourlyRate":
		return p.HourlyRate, p.HourlyRate != nil
	case "isAvailable":
		return p.IsAvailable, true
	}
	return nil, false
}

// Service represents a bookable service offered by a provider
type Service struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Category        string    `json:"category" db:"category"`
	ProviderID      string    `json:"providerId" db:"provider_id"`
	ProviderName    string    `json:"providerName" db:"provider_name"`
	Price           *float64  `json:"price,omitempty" db:"price"`
	Rating          *float64  `json:"rating,omitempty" db:"rating"`
	DurationMinutes *int      `json:"durationMinutes,omitempty" db:"duration_minutes"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

func (s Service) RecordID() string { return s.ID }

// Attr implements filter.Record
func (s Service) Attr(name string) (any, bool) {
	switch name {
	case "title":
		return s.Title, true
	case "description":
		return s.Description, s.Description != nil
	case "category":
		return s.Category, true
	case "categoryLabel":
		return filter.CategoryLabel(s.Category), true
	case "providerName":
		return s.ProviderName, true
	case "price":
		return s.Price, s.Price != nil
	case "rating":
		return s.Rating, s.Rating != nil
	case "durationMinutes":
		return s.DurationMinutes, s.DurationMinutes != nil
	}
	return nil, false
}

// Promotion represents a time-limited offer from a company
type Promotion struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     *string    `json:"description,omitempty" db:"description"`
	Category        string     `json:"category" db:"category"`
	CompanyID       string     `json:"companyId" db:"company_id"`
	CompanyName     string     `json:"companyName" db:"company_name"`
	DiscountPercent *float64   `json:"discountPercent,omitempty" db:"discount_percent"`
	Price           *float64   `json:"price,omitempty" db:"price"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	ValidUntil      *time.Time `json:"validUntil,omitempty" db:"valid_until"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

func (p Promotion) RecordID() string { return p.ID }

// Attr implements filter.Record
func (p Promotion) Attr(name string) (any, bool) {
	switch name {
	case "title":
		return p.Title, true
	case "description":
		return p.Description, p.Description != nil
	case "category":
		return p.Category, true
	case "categoryLabel":
		return filter.CategoryLabel(p.Category), true
	case "companyName":
		return p.CompanyName, true
	case "discountPercent":
		return p.DiscountPercent, p.DiscountPercent != nil
	case "price":
		return p.Price, p.Price != nil
	case "isActive":
		return p.IsActive, true
	}
	return nil, false
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONArray", value)
	}
}
