package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
	"github.com/nexcrm/lead-ingestion-service/internal/webhook"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore persists observed webhook traffic and lead snapshots.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// RecordMessage persists one inbound message event. The vendor delivers
// at-least-once, so redelivered messages (same vendor message ID) are
// absorbed by the uniqueness constraint rather than duplicated.
func (p *PostgresStore) RecordMessage(ctx context.Context, ev webhook.MessageEvent) error {
	if ev.MessageID == "" {
		return errors.New("message id required")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO whatsapp_messages(id, message_id, sender_id, kind, body, received_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (message_id) DO NOTHING
	`, uuid.New().String(), ev.MessageID, ev.SenderID, string(ev.Kind), ev.Body, time.Now().UTC())

	return err
}

// RecordStatus persists one delivery status update. Statuses are
// observational; every update is kept, there is no transition logic.
func (p *PostgresStore) RecordStatus(ctx context.Context, ev webhook.StatusEvent) error {
	if ev.MessageID == "" {
		return errors.New("message id required")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO message_statuses(id, message_id, status, observed_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.New().String(), ev.MessageID, ev.Status, time.Now().UTC())

	return err
}

// SaveLeads upserts a fetched lead snapshot. Repeated fetches of the same
// external lead overwrite the previous snapshot; the aggregator itself does
// no dedup, this is just the latest-known copy for the dashboard.
func (p *PostgresStore) SaveLeads(ctx context.Context, leads []models.Lead) error {
	for _, lead := range leads {
		metadata, err := json.Marshal(lead.Metadata)
		if err != nil {
			return err
		}

		_, err = p.pool.Exec(ctx, `
			INSERT INTO leads(id, name, email, phone, company, source, created_at, metadata, fetched_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				phone = EXCLUDED.phone,
				company = EXCLUDED.company,
				created_at = EXCLUDED.created_at,
				metadata = EXCLUDED.metadata,
				fetched_at = EXCLUDED.fetched_at
		`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company,
			string(lead.Source), lead.CreatedAt, metadata, time.Now().UTC())
		if err != nil {
			return err
		}
	}
	return nil
}
