package database

import (
	"database/sql"

	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// Certificate registry operations

// GetCertificateType retrieves a registered certificate type by id
func (d *Database) GetCertificateType(certificateID int64) (*models.CertificateType, error) {
	query := d.rebind(`SELECT certificate_id, course_id, creator, created_at
	          FROM certificate_types WHERE certificate_id = ?`)

	var ct models.CertificateType
	err := d.db.QueryRow(query, certificateID).Scan(
		&ct.CertificateID, &ct.CourseID, &ct.Creator, &ct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// GetBalance retrieves the certificate balance for (holder, certificate type).
// Holders with no row have a balance of zero.
func (d *Database) GetBalance(holder string, certificateID int64) (int64, error) {
	query := d.rebind(`SELECT balance FROM certificate_balances WHERE holder = ? AND certificate_id = ?`)

	var balance int64
	err := d.db.QueryRow(query, holder, certificateID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// addBalanceTx adjusts a holder's balance by delta inside an existing
// transaction, creating the row on first mint.
func (d *Database) addBalanceTx(tx *sql.Tx, holder string, certificateID, delta int64) error {
	query := `INSERT INTO certificate_balances (holder, certificate_id, balance)
	          VALUES (?, ?, ?)
	          ON CONFLICT (holder, certificate_id) DO UPDATE SET balance = balance + ?`
	if d.dbType == "postgres" {
		query = `INSERT INTO certificate_balances (holder, certificate_id, balance)
		         VALUES ($1, $2, $3)
		         ON CONFLICT (holder, certificate_id) DO UPDATE SET balance = certificate_balances.balance + $4`
	}

	_, err := tx.Exec(query, holder, certificateID, delta, delta)
	return err
}
