package service

import (
	"context"
	"time"

	"resto-pos/internal/apperr"
	"resto-pos/internal/store"
)

// SalesReport aggregates delivered-order sales over a period
type SalesReport struct {
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	GrossSales   float64               `json:"gross_sales"`
	OrderCount   int                   `json:"order_count"`
	AvgTicket    float64               `json:"avg_ticket"`
	ByCategory   []store.CategorySales `json:"by_category"`
	ByHour       []store.HourlySales   `json:"by_hour"`
	ByType       []store.TypeSales     `json:"by_type"`
	TopProducts  []store.ProductSales  `json:"top_products"`
	StaffRanking []store.StaffSales    `json:"staff_ranking"`
}

// ReportService builds back-office sales reports
type ReportService struct {
	store            Store
	topProductsLimit int
}

// NewReportService creates a new report service
func NewReportService(st Store, topProductsLimit int) *ReportService {
	if topProductsLimit <= 0 {
		topProductsLimit = 10
	}
	return &ReportService{store: st, topProductsLimit: topProductsLimit}
}

// Sales builds the report for [from, to). Only delivered orders count.
func (s *ReportService) Sales(ctx context.Context, restaurantID string, from, to time.Time) (*SalesReport, error) {
	if !to.After(from) {
		return nil, apperr.Validation("report period end must be after its start")
	}

	gross, count, err := s.store.SalesTotals(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.store.SalesByCategory(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	byHour, err := s.store.SalesByHour(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	byType, err := s.store.SalesByType(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.store.TopProducts(ctx, restaurantID, from, to, s.topProductsLimit)
	if err != nil {
		return nil, err
	}
	staff, err := s.store.StaffPerformance(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:         from,
		To:           to,
		GrossSales:   gross,
		OrderCount:   count,
		ByCategory:   byCategory,
		ByHour:       byHour,
		ByType:       byType,
		TopProducts:  topProducts,
		StaffRanking: staff,
	}
	if count > 0 {
		report.AvgTicket = gross / float64(count)
	}
	return report, nil
}
