package database

import (
	"database/sql"

	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// Account directory operations

// CreateAccount records a new factory directory entry together with its
// institution profile and the AccountCreated event, atomically.
func (d *Database) CreateAccount(account *models.Account, inst *models.Institution, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&seq); err != nil {
			return err
		}
		account.Seq = seq + 1

		query := d.rebind(`INSERT INTO accounts (registrant, name, account_address, is_active, seq, created_at)
		          VALUES (?, ?, ?, ?, ?, ?)`)
		if _, err := tx.Exec(query, account.Registrant, account.Name, account.AccountAddress,
			account.IsActive, account.Seq, account.CreatedAt); err != nil {
			return err
		}

		query = d.rebind(`INSERT INTO institutions
		          (account_address, name, proprietor, course_duration, is_active, cert_minted, course_manager, created_at)
		          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if _, err := tx.Exec(query, inst.AccountAddress, inst.Name, inst.Proprietor,
			inst.CourseDuration, inst.IsActive, inst.CertMinted, inst.CourseManager, inst.CreatedAt); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}

// GetAccount retrieves a directory entry by registrant address
func (d *Database) GetAccount(registrant string) (*models.Account, error) {
	query := d.rebind(`SELECT registrant, name, account_address, is_active, seq, created_at
	          FROM accounts WHERE registrant = ?`)

	var account models.Account
	err := d.db.QueryRow(query, registrant).Scan(
		&account.Registrant, &account.Name, &account.AccountAddress,
		&account.IsActive, &account.Seq, &account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByAddress retrieves a directory entry by institution account address
func (d *Database) GetAccountByAddress(address string) (*models.Account, error) {
	query := d.rebind(`SELECT registrant, name, account_address, is_active, seq, created_at
	          FROM accounts WHERE account_address = ?`)

	var account models.Account
	err := d.db.QueryRow(query, address).Scan(
		&account.Registrant, &account.Name, &account.AccountAddress,
		&account.IsActive, &account.Seq, &account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts retrieves all directory entries in insertion order
func (d *Database) ListAccounts() ([]*models.Account, error) {
	query := `SELECT registrant, name, account_address, is_active, seq, created_at
	          FROM accounts ORDER BY seq`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.Registrant, &account.Name, &account.AccountAddress,
			&account.IsActive, &account.Seq, &account.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// CountAccounts returns the total number of directory entries
func (d *Database) CountAccounts() (int64, error) {
	var count int64
	err := d.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// UpdateAccountActive toggles the factory-level activity flag for a registrant
func (d *Database) UpdateAccountActive(registrant string, active bool, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE accounts SET is_active = ? WHERE registrant = ?`)
		if _, err := tx.Exec(query, active, registrant); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// Institution operations

// GetInstitution retrieves an institution profile by account address
func (d *Database) GetInstitution(address string) (*models.Institution, error) {
	query := d.rebind(`SELECT account_address, name, proprietor, course_duration, is_active, cert_minted, course_manager, created_at
	          FROM institutions WHERE account_address = ?`)

	var inst models.Institution
	err := d.db.QueryRow(query, address).Scan(
		&inst.AccountAddress, &inst.Name, &inst.Proprietor, &inst.CourseDuration,
		&inst.IsActive, &inst.CertMinted, &inst.CourseManager, &inst.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// UpdateInstitution updates an institution's name and default course duration
func (d *Database) UpdateInstitution(address, name string, duration int64, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE institutions SET name = ?, course_duration = ? WHERE account_address = ?`)
		if _, err := tx.Exec(query, name, duration, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// UpdateInstitutionActive toggles the institution-level activity flag
func (d *Database) UpdateInstitutionActive(address string, active bool, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE institutions SET is_active = ? WHERE account_address = ?`)
		if _, err := tx.Exec(query, active, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// TransferInstitutionOwner moves the proprietor to a new wallet address
func (d *Database) TransferInstitutionOwner(address, newOwner string, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE institutions SET proprietor = ? WHERE account_address = ?`)
		if _, err := tx.Exec(query, newOwner, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// SetInstitutionCourseManager stores which course manager the institution delegates to
func (d *Database) SetInstitutionCourseManager(address, courseManager string, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE institutions SET course_manager = ? WHERE account_address = ?`)
		if _, err := tx.Exec(query, courseManager, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}
