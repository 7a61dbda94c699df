package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_created_total",
		Help: "Total number of orders created",
	}, []string{"type"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_order_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"from", "to"})

	OrderTransitionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_order_transitions_rejected_total",
		Help: "Total number of rejected status transitions",
	})

	StockDeductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_stock_deductions_total",
		Help: "Total number of order stock deductions",
	})

	StockRestorationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_stock_restorations_total",
		Help: "Total number of order stock restorations",
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_adjustments_total",
		Help: "Total number of manual stock adjustments",
	}, []string{"reason"})

	PaymentsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_payments_recorded_total",
		Help: "Total number of payments recorded",
	}, []string{"method"})

	DeliveriesAssignedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_deliveries_assigned_total",
		Help: "Total number of delivery assignments",
	})

	CouponsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_coupons_redeemed_total",
		Help: "Total number of successful coupon redemptions",
	})

	StockDeductionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_stock_deduction_latency_seconds",
		Help:    "Latency of per-order stock deduction",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
