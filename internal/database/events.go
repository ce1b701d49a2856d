package database

import (
	"database/sql"
	"strconv"

	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// Event operations. Events are only ever written inside the transaction of the
// command that caused them, via insertEventTx.

func (d *Database) insertEventTx(tx *sql.Tx, ev *models.Event) error {
	var seq int64
	if err := tx.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&seq); err != nil {
		return err
	}
	ev.Seq = seq + 1

	query := d.rebind(`INSERT INTO events (id, event_type, payload, seq, created_at)
	          VALUES (?, ?, ?, ?, ?)`)
	_, err := tx.Exec(query, ev.ID, ev.EventType, ev.Payload, ev.Seq, ev.CreatedAt)
	return err
}

// ListEvents retrieves events newest first, optionally filtered by type.
// A limit of 0 means no limit.
func (d *Database) ListEvents(eventType string, limit int) ([]*models.Event, error) {
	query := `SELECT id, event_type, payload, seq, created_at FROM events`
	var args []interface{}
	if eventType != "" {
		query += d.rebind(` WHERE event_type = ?`)
		args = append(args, eventType)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.Seq, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}

	return events, rows.Err()
}
