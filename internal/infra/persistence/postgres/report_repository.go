package postgres

import (
	"context"
	"strings"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Pre-aggregated tables loaded by an external ETL; this repository only
// reads and reshapes them.
const (
	incidenceTable = "incidencia_clima_unificado_stage"
	forecastTable  = "resultadosprevisoes_cancer_pele"
)

// reportRepository implements repository.ReportRepository over the raw
// analytical tables.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

type incidenceRow struct {
	Ano   int   `gorm:"column:ano"`
	Casos int64 `gorm:"column:casos"`
}

func (repo *reportRepository) AnnualIncidence(ctx context.Context, start, end int) ([]entity.AnnualIncidence, error) {
	var rows []incidenceRow

	err := repo.db.WithContext(ctx).Raw(`
		SELECT t.ano, COUNT(*) AS casos
		FROM (
			SELECT CAST(ano_cmpt AS INTEGER) AS ano
			FROM `+incidenceTable+`
			WHERE CAST(ano_cmpt AS INTEGER) BETWEEN ? AND ?
		) t
		GROUP BY t.ano
		ORDER BY t.ano`, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query annual incidence")
	}

	out := make([]entity.AnnualIncidence, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.AnnualIncidence{Year: row.Ano, Cases: row.Casos})
	}

	return out, nil
}

type forecastRow struct {
	Ano    int     `gorm:"column:ano"`
	Modelo string  `gorm:"column:modelo"`
	Point  float64 `gorm:"column:point"`
	Lo95   float64 `gorm:"column:lo95"`
	Hi95   float64 `gorm:"column:hi95"`
}

func (repo *reportRepository) Forecast(ctx context.Context, model string) ([]entity.ForecastPoint, error) {
	// Unknown model names fall back to ARIMA rather than erroring; the
	// chart always has something to draw.
	model = strings.ToUpper(model)
	if model != "ARIMA" && model != "ETS" {
		model = "ARIMA"
	}

	var rows []forecastRow

	err := repo.db.WithContext(ctx).Raw(`
		SELECT CAST(year AS INTEGER) AS ano, UPPER(model) AS modelo, point, lo95, hi95
		FROM `+forecastTable+`
		WHERE UPPER(model) = ?
		ORDER BY ano`, model).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query forecast series")
	}

	out := make([]entity.ForecastPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.ForecastPoint{
			Year:  row.Ano,
			Model: row.Modelo,
			Point: row.Point,
			Lo95:  row.Lo95,
			Hi95:  row.Hi95,
		})
	}

	return out, nil
}

type correlationRow struct {
	Ano     int      `gorm:"column:ano"`
	Casos   int64    `gorm:"column:casos"`
	UVMedio *float64 `gorm:"column:uv_medio"`
}

func (repo *reportRepository) Correlation(ctx context.Context, start, end int) ([]entity.CorrelationRow, error) {
	var rows []correlationRow

	// The staging table carries no historical UV series yet, so uv_medio is
	// NULL for every year. TODO: join the UV history once the ETL lands it.
	err := repo.db.WithContext(ctx).Raw(`
		SELECT t.ano, COUNT(*) AS casos, NULL AS uv_medio
		FROM (
			SELECT CAST(ano_cmpt AS INTEGER) AS ano
			FROM `+incidenceTable+`
			WHERE CAST(ano_cmpt AS INTEGER) BETWEEN ? AND ?
		) t
		GROUP BY t.ano
		ORDER BY t.ano`, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query uv correlation")
	}

	out := make([]entity.CorrelationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.CorrelationRow{Year: row.Ano, Cases: row.Casos, MeanUV: row.UVMedio})
	}

	return out, nil
}
