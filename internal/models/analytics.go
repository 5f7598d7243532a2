package models

// AnalyticsReport is the subset of a GA4 Data API runReport response the
// aggregator consumes. Dimension order follows the report request: email,
// name, phone, company, source, medium. Metric order: activeUsers,
// conversions.
type AnalyticsReport struct {
	Rows     []AnalyticsRow `json:"rows"`
	RowCount int            `json:"rowCount"`
}

// AnalyticsRow is one report row.
type AnalyticsRow struct {
	DimensionValues []AnalyticsValue `json:"dimensionValues"`
	MetricValues    []AnalyticsValue `json:"metricValues"`
}

// AnalyticsValue wraps a single dimension or metric cell.
type AnalyticsValue struct {
	Value string `json:"value"`
}
