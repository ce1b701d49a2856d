package database

import (
	"database/sql"

	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// Creator operations

// CreateCreator records a new course-creation authorization
func (d *Database) CreateCreator(creator *models.Creator, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`INSERT INTO creators (creator_address, name, is_active, total_courses, created_at)
		          VALUES (?, ?, ?, ?, ?)`)
		if _, err := tx.Exec(query, creator.CreatorAddress, creator.Name,
			creator.IsActive, creator.TotalCourses, creator.CreatedAt); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// GetCreator retrieves a creator record by address
func (d *Database) GetCreator(address string) (*models.Creator, error) {
	query := d.rebind(`SELECT creator_address, name, is_active, total_courses, created_at
	          FROM creators WHERE creator_address = ?`)

	var creator models.Creator
	err := d.db.QueryRow(query, address).Scan(
		&creator.CreatorAddress, &creator.Name, &creator.IsActive,
		&creator.TotalCourses, &creator.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

// UpdateCreatorActive toggles the authorization flag. TotalCourses is preserved.
func (d *Database) UpdateCreatorActive(address string, active bool, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE creators SET is_active = ? WHERE creator_address = ?`)
		if _, err := tx.Exec(query, active, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// UpdateCreatorName renames a creator without touching its authorization state
func (d *Database) UpdateCreatorName(address, name string, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE creators SET name = ? WHERE creator_address = ?`)
		if _, err := tx.Exec(query, name, address); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// Course operations

// CreateCourse inserts a new course, allocating its course and certificate ids
// from their monotonic sequences, registers the certificate type, and bumps the
// creator's course counter. Ids are never reused since courses are never deleted.
func (d *Database) CreateCourse(course *models.Course, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow(`SELECT COALESCE(MAX(course_id), 0) + 1 FROM courses`).Scan(&course.CourseID); err != nil {
			return err
		}
		if err := tx.QueryRow(`SELECT COALESCE(MAX(certificate_id), 0) + 1 FROM certificate_types`).Scan(&course.CertificateID); err != nil {
			return err
		}

		query := d.rebind(`INSERT INTO courses
		          (course_id, creator, name, description, course_uri, price, duration, is_active,
		           requires_assessment, certificate_id, total_enrollments, total_completions, created_at)
		          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if _, err := tx.Exec(query,
			course.CourseID, course.Creator, course.Name, course.Description, course.CourseURI,
			course.Price, course.Duration, course.IsActive, course.RequiresAssessment,
			course.CertificateID, course.TotalEnrollments, course.TotalCompletions, course.CreatedAt,
		); err != nil {
			return err
		}

		query = d.rebind(`INSERT INTO certificate_types (certificate_id, course_id, creator, created_at)
		          VALUES (?, ?, ?, ?)`)
		if _, err := tx.Exec(query, course.CertificateID, course.CourseID, course.Creator, course.CreatedAt); err != nil {
			return err
		}

		query = d.rebind(`UPDATE creators SET total_courses = total_courses + 1 WHERE creator_address = ?`)
		if _, err := tx.Exec(query, course.Creator); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}

// GetCourse retrieves a course by id
func (d *Database) GetCourse(courseID int64) (*models.Course, error) {
	query := d.rebind(`SELECT course_id, creator, name, description, course_uri, price, duration, is_active,
	                 requires_assessment, certificate_id, total_enrollments, total_completions, created_at
	          FROM courses WHERE course_id = ?`)

	var course models.Course
	err := d.db.QueryRow(query, courseID).Scan(
		&course.CourseID, &course.Creator, &course.Name, &course.Description, &course.CourseURI,
		&course.Price, &course.Duration, &course.IsActive, &course.RequiresAssessment,
		&course.CertificateID, &course.TotalEnrollments, &course.TotalCompletions, &course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *Database) listCourses(query string, args ...interface{}) ([]*models.Course, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.CourseID, &course.Creator, &course.Name, &course.Description, &course.CourseURI,
			&course.Price, &course.Duration, &course.IsActive, &course.RequiresAssessment,
			&course.CertificateID, &course.TotalEnrollments, &course.TotalCompletions, &course.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

const courseColumns = `course_id, creator, name, description, course_uri, price, duration, is_active,
	                 requires_assessment, certificate_id, total_enrollments, total_completions, created_at`

// ListCourses retrieves all courses in creation order
func (d *Database) ListCourses() ([]*models.Course, error) {
	return d.listCourses(`SELECT ` + courseColumns + ` FROM courses ORDER BY course_id`)
}

// ListActiveCourses retrieves active courses in creation order
func (d *Database) ListActiveCourses() ([]*models.Course, error) {
	query := d.rebind(`SELECT ` + courseColumns + ` FROM courses WHERE is_active = ? ORDER BY course_id`)
	return d.listCourses(query, true)
}

// ListCoursesByCreator retrieves a creator's courses in creation order
func (d *Database) ListCoursesByCreator(creator string) ([]*models.Course, error) {
	query := d.rebind(`SELECT ` + courseColumns + ` FROM courses WHERE creator = ? ORDER BY course_id`)
	return d.listCourses(query, creator)
}

// ListActiveCoursesByCreator retrieves a creator's active courses in creation order
func (d *Database) ListActiveCoursesByCreator(creator string) ([]*models.Course, error) {
	query := d.rebind(`SELECT ` + courseColumns + ` FROM courses WHERE creator = ? AND is_active = ? ORDER BY course_id`)
	return d.listCourses(query, creator, true)
}

// UpdateCourse updates a course's mutable details
func (d *Database) UpdateCourse(courseID int64, name, description, courseURI string, price, duration int64, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE courses SET name = ?, description = ?, course_uri = ?, price = ?, duration = ?
		          WHERE course_id = ?`)
		if _, err := tx.Exec(query, name, description, courseURI, price, duration, courseID); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// UpdateCourseActive toggles a course's activity flag
func (d *Database) UpdateCourseActive(courseID int64, active bool, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE courses SET is_active = ? WHERE course_id = ?`)
		if _, err := tx.Exec(query, active, courseID); err != nil {
			return err
		}
		return d.insertEventTx(tx, ev)
	})
}

// Enrollment operations

// CreateEnrollment records a new enrollment and bumps the course's enrollment
// counter in the same transaction as the StudentEnrolled event.
func (d *Database) CreateEnrollment(enrollment *models.Enrollment, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRow(`SELECT COUNT(*) FROM enrollments`).Scan(&seq); err != nil {
			return err
		}
		enrollment.Seq = seq + 1

		query := d.rebind(`INSERT INTO enrollments
		          (student, course_id, enrolled_at, is_completed, certificate_issued, completed_at, seq)
		          VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if _, err := tx.Exec(query, enrollment.Student, enrollment.CourseID, enrollment.EnrolledAt,
			enrollment.IsCompleted, enrollment.CertificateIssued, enrollment.CompletedAt, enrollment.Seq); err != nil {
			return err
		}

		query = d.rebind(`UPDATE courses SET total_enrollments = total_enrollments + 1 WHERE course_id = ?`)
		if _, err := tx.Exec(query, enrollment.CourseID); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}

// GetEnrollment retrieves an enrollment by (student, course)
func (d *Database) GetEnrollment(student string, courseID int64) (*models.Enrollment, error) {
	query := d.rebind(`SELECT student, course_id, enrolled_at, is_completed, certificate_issued, completed_at, seq
	          FROM enrollments WHERE student = ? AND course_id = ?`)

	var enrollment models.Enrollment
	err := d.db.QueryRow(query, student, courseID).Scan(
		&enrollment.Student, &enrollment.CourseID, &enrollment.EnrolledAt,
		&enrollment.IsCompleted, &enrollment.CertificateIssued, &enrollment.CompletedAt, &enrollment.Seq,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CompleteEnrollment marks an enrollment completed and bumps the course's
// completion counter atomically.
func (d *Database) CompleteEnrollment(student string, courseID int64, completedAt sql.NullTime, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE enrollments SET is_completed = ?, completed_at = ?
		          WHERE student = ? AND course_id = ?`)
		if _, err := tx.Exec(query, true, completedAt, student, courseID); err != nil {
			return err
		}

		query = d.rebind(`UPDATE courses SET total_completions = total_completions + 1 WHERE course_id = ?`)
		if _, err := tx.Exec(query, courseID); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}

// ListStudentCourses retrieves the course ids a student enrolled in, in
// enrollment order
func (d *Database) ListStudentCourses(student string) ([]int64, error) {
	query := d.rebind(`SELECT course_id FROM enrollments WHERE student = ? ORDER BY seq`)

	rows, err := d.db.Query(query, student)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courseIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		courseIDs = append(courseIDs, id)
	}

	return courseIDs, rows.Err()
}

// ListCourseStudents retrieves the students enrolled in a course, in
// enrollment order
func (d *Database) ListCourseStudents(courseID int64) ([]string, error) {
	query := d.rebind(`SELECT student FROM enrollments WHERE course_id = ? ORDER BY seq`)

	rows, err := d.db.Query(query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []string
	for rows.Next() {
		var student string
		if err := rows.Scan(&student); err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// Certificate issuance bookkeeping

// IssueCertificate flips the enrollment's issuance flag, mints one unit of the
// course's certificate to the student, and bumps the issuing institution's
// counter, all in one transaction with the CertificateIssued event.
func (d *Database) IssueCertificate(student string, courseID, certificateID int64, accountAddress string, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		query := d.rebind(`UPDATE enrollments SET certificate_issued = ? WHERE student = ? AND course_id = ?`)
		if _, err := tx.Exec(query, true, student, courseID); err != nil {
			return err
		}

		if err := d.addBalanceTx(tx, student, certificateID, 1); err != nil {
			return err
		}

		query = d.rebind(`UPDATE institutions SET cert_minted = cert_minted + 1 WHERE account_address = ?`)
		if _, err := tx.Exec(query, accountAddress); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}

// RevokeCertificate burns the student's certificate balance and decrements the
// institution's counter. When resetIssued is true the enrollment becomes
// eligible for re-issuance.
func (d *Database) RevokeCertificate(student string, courseID, certificateID int64, accountAddress string, resetIssued bool, ev *models.Event) error {
	return d.withTx(func(tx *sql.Tx) error {
		if resetIssued {
			query := d.rebind(`UPDATE enrollments SET certificate_issued = ? WHERE student = ? AND course_id = ?`)
			if _, err := tx.Exec(query, false, student, courseID); err != nil {
				return err
			}
		}

		if err := d.addBalanceTx(tx, student, certificateID, -1); err != nil {
			return err
		}

		query := d.rebind(`UPDATE institutions SET cert_minted = cert_minted - 1 WHERE account_address = ?`)
		if _, err := tx.Exec(query, accountAddress); err != nil {
			return err
		}

		return d.insertEventTx(tx, ev)
	})
}
