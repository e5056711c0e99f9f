package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

const alertColumns = `id, product_id, kind, message, status, stock_level_at_alert,
	acknowledged_by, acknowledged_at, resolved_at, created_at`

// StockAlertRepo implementación del puerto StockAlertRepository sobre PostgreSQL.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador de persistencia para alertas.
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	err := row.Scan(
		&a.ID, &a.ProductID, &a.Kind, &a.Message, &a.Status, &a.StockLevelAtAlert,
		&a.AcknowledgedBy, &a.AcknowledgedAt, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAlerts(rows pgx.Rows) ([]*entity.StockAlert, error) {
	defer rows.Close()
	var alerts []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Create persiste una nueva alerta.
func (r *StockAlertRepo) Create(alert *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.Kind, alert.Message, alert.Status,
		alert.StockLevelAtAlert, alert.AcknowledgedBy, alert.AcknowledgedAt,
		alert.ResolvedAt, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *StockAlertRepo) GetByID(id string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetActiveByProductAndKind devuelve la alerta Active del par (producto, tipo).
func (r *StockAlertRepo) GetActiveByProductAndKind(productID, kind string) (*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE product_id = $1 AND kind = $2 AND status = $3`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, productID, kind, entity.AlertStatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active alert: %w", err)
	}
	return a, nil
}

// ListOpenByProduct devuelve alertas Active y Acknowledged de un producto.
func (r *StockAlertRepo) ListOpenByProduct(productID string) ([]*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE product_id = $1 AND status IN ($2, $3)
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query,
		productID, entity.AlertStatusActive, entity.AlertStatusAcknowledged)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	return collectAlerts(rows)
}

// ListActive lista todas las alertas activas, más reciente primero.
func (r *StockAlertRepo) ListActive() ([]*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE status = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, entity.AlertStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	return collectAlerts(rows)
}

// ListActiveByKind lista alertas activas de un tipo.
func (r *StockAlertRepo) ListActiveByKind(kind string) ([]*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE status = $1 AND kind = $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, entity.AlertStatusActive, kind)
	if err != nil {
		return nil, fmt.Errorf("list active alerts by kind: %w", err)
	}
	return collectAlerts(rows)
}

// Update persiste cambios de estado, mensaje y marcas de auditoría.
func (r *StockAlertRepo) Update(alert *entity.StockAlert) error {
	query := `
		UPDATE stock_alerts
		SET message = $2, status = $3, stock_level_at_alert = $4,
			acknowledged_by = $5, acknowledged_at = $6, resolved_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Message, alert.Status, alert.StockLevelAtAlert,
		alert.AcknowledgedBy, alert.AcknowledgedAt, alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
