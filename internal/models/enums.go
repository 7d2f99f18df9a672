package models

import "strings"

// Category is the kind of project
type Category string

const (
	CategoryWeb            Category = "web"
	CategoryMobile         Category = "mobile"
	CategoryDesktop        Category = "desktop"
	CategoryAPI            Category = "api"
	CategoryInfrastructure Category = "infrastructure"
	CategoryResearch       Category = "research"
)

// AllCategories lists every valid category
var AllCategories = []Category{
	CategoryWeb, CategoryMobile, CategoryDesktop,
	CategoryAPI, CategoryInfrastructure, CategoryResearch,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a project
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOngoing   Status = "ongoing"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every valid status
var AllStatuses = []Status{StatusCompleted, StatusOngoing, StatusPaused, StatusCancelled}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TechCategory classifies a technology
type TechCategory string

const (
	TechFrontend TechCategory = "frontend"
	TechBackend  TechCategory = "backend"
	TechDatabase TechCategory = "database"
	TechTool     TechCategory = "tool"
	TechPlatform TechCategory = "platform"
)

// AllTechCategories lists every valid technology category
var AllTechCategories = []TechCategory{TechFrontend, TechBackend, TechDatabase, TechTool, TechPlatform}

// Valid reports whether t is a known technology category
func (t TechCategory) Valid() bool {
	for _, v := range AllTechCategories {
		if t == v {
			return true
		}
	}
	return false
}

// MetricType tells how a metric value should be rendered
type MetricType string

const (
	MetricNumber     MetricType = "number"
	MetricPercentage MetricType = "percentage"
	MetricCurrency   MetricType = "currency"
	MetricText       MetricType = "text"
)

// AllMetricTypes lists every valid metric type
var AllMetricTypes = []MetricType{MetricNumber, MetricPercentage, MetricCurrency, MetricText}

// Valid reports whether t is a known metric type
func (t MetricType) Valid() bool {
	for _, v := range AllMetricTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Trend is the direction a metric moved
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// AllTrends lists every valid trend
var AllTrends = []Trend{TrendUp, TrendDown, TrendNeutral}

// Valid reports whether t is a known trend
func (t Trend) Valid() bool {
	for _, v := range AllTrends {
		if t == v {
			return true
		}
	}
	return false
}

// MetricColor is a presentation hint for a metric
type MetricColor string

const (
	ColorSuccess MetricColor = "success"
	ColorWarning MetricColor = "warning"
	ColorError   MetricColor = "error"
	ColorInfo    MetricColor = "info"
	ColorPrimary MetricColor = "primary"
)

// Importance ranks milestones
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// AllImportances lists every valid milestone importance
var AllImportances = []Importance{ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceCritical}

// Valid reports whether i is a known importance
func (i Importance) Valid() bool {
	for _, v := range AllImportances {
		if i == v {
			return true
		}
	}
	return false
}

// LinkType classifies a project link
type LinkType string

const (
	LinkGitHub        LinkType = "github"
	LinkDemo          LinkType = "demo"
	LinkDocumentation LinkType = "documentation"
	LinkArticle       LinkType = "article"
	LinkOther         LinkType = "other"
)

// Viewpoint selects which side of a project is emphasized
type Viewpoint string

const (
	ViewHR   Viewpoint = "hr"
	ViewBoss Viewpoint = "boss"
)

// ParseViewpoint maps user input to a viewpoint, defaulting to HR
func ParseViewpoint(value string) Viewpoint {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "boss", "manager", "lead":
		return ViewBoss
	default:
		return ViewHR
	}
}
