package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ndr-srv/internal/model"
	"ndr-srv/internal/shipment"
	postgresPkg "ndr-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries"
	pkgErrors "github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

const attemptContextQuery = `SELECT d.id AS delivery_id, d.order_id, d.status, d.attempt_count, d.last_attempt_at,
		d.signals, d.customer_confirmed, o.address_quality
	FROM deliveries d
	JOIN orders o ON o.id = d.order_id`

type attemptContextRow struct {
	DeliveryID        string         `boil:"delivery_id"`
	OrderID           string         `boil:"order_id"`
	Status            string         `boil:"status"`
	AttemptCount      int            `boil:"attempt_count"`
	LastAttemptAt     null.Time      `boil:"last_attempt_at"`
	Signals           pq.StringArray `boil:"signals"`
	CustomerConfirmed bool           `boil:"customer_confirmed"`
	AddressQuality    null.String    `boil:"address_quality"`
}

func (row attemptContextRow) toModel() model.DeliveryAttemptContext {
	signals := make([]model.Signal, 0, len(row.Signals))
	for _, s := range row.Signals {
		signals = append(signals, model.Signal(s))
	}
	aq := model.AddressQualityUnverified
	if row.AddressQuality.Valid {
		aq = model.AddressQuality(row.AddressQuality.String)
	}
	return model.DeliveryAttemptContext{
		DeliveryID:        row.DeliveryID,
		OrderID:           row.OrderID,
		Status:            model.DeliveryStatus(row.Status),
		AttemptCount:      row.AttemptCount,
		LastAttemptAt:     row.LastAttemptAt.Time,
		Signals:           signals,
		AddressQuality:    aq,
		CustomerConfirmed: row.CustomerConfirmed,
	}
}

func (s *implStore) ListOpenDeliveryAttempts(ctx context.Context) ([]model.DeliveryAttemptContext, error) {
	var rows []attemptContextRow
	err := queries.Raw(attemptContextQuery+` WHERE d.status = $1 AND d.attempt_count > 0 ORDER BY d.last_attempt_at ASC`,
		string(model.DeliveryStatusFailed),
	).Bind(ctx, s.db, &rows)
	if err != nil {
		s.l.Errorf(ctx, "internal.shipment.repository.postgres.ListOpenDeliveryAttempts.Bind: %v", err)
		return nil, pkgErrors.Wrap(err, "list open delivery attempts")
	}

	res := make([]model.DeliveryAttemptContext, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}
	return res, nil
}

func (s *implStore) GetDeliveryAttempt(ctx context.Context, deliveryID string) (model.DeliveryAttemptContext, error) {
	if !postgresPkg.IsValidUUID(deliveryID) {
		return model.DeliveryAttemptContext{}, shipment.ErrDeliveryNotFound
	}

	var row attemptContextRow
	err := queries.Raw(attemptContextQuery+` WHERE d.id = $1`, deliveryID).Bind(ctx, s.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DeliveryAttemptContext{}, shipment.ErrDeliveryNotFound
		}
		s.l.Errorf(ctx, "internal.shipment.repository.postgres.GetDeliveryAttempt.Bind: %v", err)
		return model.DeliveryAttemptContext{}, pkgErrors.Wrap(err, "get delivery attempt")
	}
	return row.toModel(), nil
}

type orderRow struct {
	ID             string      `boil:"id"`
	Code           string      `boil:"code"`
	CustomerName   string      `boil:"customer_name"`
	CustomerPhone  null.String `boil:"customer_phone"`
	CustomerEmail  null.String `boil:"customer_email"`
	Address        string      `boil:"address"`
	AddressQuality null.String `boil:"address_quality"`
	PaymentMethod  string      `boil:"payment_method"`
	CODAmount      float64     `boil:"cod_amount"`
}

func (s *implStore) GetOrder(ctx context.Context, id string) (model.Order, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.Order{}, shipment.ErrOrderNotFound
	}

	var row orderRow
	err := queries.Raw(`SELECT id, code, customer_name, customer_phone, customer_email, address,
			address_quality, payment_method, cod_amount
		FROM orders WHERE id = $1`, id).Bind(ctx, s.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, shipment.ErrOrderNotFound
		}
		s.l.Errorf(ctx, "internal.shipment.repository.postgres.GetOrder.Bind: %v", err)
		return model.Order{}, pkgErrors.Wrap(err, "get order")
	}

	return model.Order{
		ID:             row.ID,
		Code:           row.Code,
		CustomerName:   row.CustomerName,
		CustomerPhone:  row.CustomerPhone.String,
		CustomerEmail:  row.CustomerEmail.String,
		Address:        row.Address,
		AddressQuality: model.AddressQuality(row.AddressQuality.String),
		PaymentMethod:  model.PaymentMethod(row.PaymentMethod),
		CODAmount:      row.CODAmount,
	}, nil
}

type deliveryRow struct {
	ID             string      `boil:"id"`
	OrderID        string      `boil:"order_id"`
	Carrier        null.String `boil:"carrier"`
	TrackingNumber null.String `boil:"tracking_number"`
	Status         string      `boil:"status"`
	AttemptCount   int         `boil:"attempt_count"`
	LastAttemptAt  null.Time   `boil:"last_attempt_at"`
	UpdatedAt      time.Time   `boil:"updated_at"`
}

func (s *implStore) GetDelivery(ctx context.Context, id string) (model.Delivery, error) {
	if !postgresPkg.IsValidUUID(id) {
		return model.Delivery{}, shipment.ErrDeliveryNotFound
	}

	var row deliveryRow
	err := queries.Raw(`SELECT id, order_id, carrier, tracking_number, status, attempt_count, last_attempt_at, updated_at
		FROM deliveries WHERE id = $1`, id).Bind(ctx, s.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Delivery{}, shipment.ErrDeliveryNotFound
		}
		s.l.Errorf(ctx, "internal.shipment.repository.postgres.GetDelivery.Bind: %v", err)
		return model.Delivery{}, pkgErrors.Wrap(err, "get delivery")
	}

	return model.Delivery{
		ID:             row.ID,
		OrderID:        row.OrderID,
		Carrier:        row.Carrier.String,
		TrackingNumber: row.TrackingNumber.String,
		Status:         model.DeliveryStatus(row.Status),
		AttemptCount:   row.AttemptCount,
		LastAttemptAt:  row.LastAttemptAt.Ptr(),
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
