// Package models defines the data structures for database entities in EduCert.
// It includes models for users, institution accounts, courses, enrollments,
// course creators, certificate balances, and platform events, representing the
// core data model for the application.
package models

import (
	"database/sql"
	"time"
)

// User represents a platform identity. A user's ID doubles as their wallet
// address everywhere else in the system.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Account represents a factory directory entry mapping a registrant to their
// institution account. Seq records insertion order for directory listings.
type Account struct {
	Registrant     string    `db:"registrant" json:"registrant"`
	Name           string    `db:"name" json:"name"`
	AccountAddress string    `db:"account_address" json:"account_address"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	Seq            int64     `db:"seq" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Institution represents the profile held by an institution account. The
// proprietor starts as the registrant and diverges after ownership transfer.
type Institution struct {
	AccountAddress string    `db:"account_address" json:"account_address"`
	Name           string    `db:"name" json:"name"`
	Proprietor     string    `db:"proprietor" json:"proprietor"`
	CourseDuration int64     `db:"course_duration" json:"course_duration"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CertMinted     int64     `db:"cert_minted" json:"cert_minted"`
	CourseManager  string    `db:"course_manager" json:"course_manager"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Creator represents a course-creation authorization in the course manager.
// A row exists once an address has been authorized; IsActive false means
// deauthorized. TotalCourses survives deauthorization.
type Creator struct {
	CreatorAddress string    `db:"creator_address" json:"creator_address"`
	Name           string    `db:"name" json:"name"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	TotalCourses   int64     `db:"total_courses" json:"total_courses"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Course represents a course in the central registry. Creator is the
// institution account address, not the proprietor's wallet.
type Course struct {
	CourseID           int64     `db:"course_id" json:"course_id"`
	Creator            string    `db:"creator" json:"creator"`
	Name               string    `db:"name" json:"name"`
	Description        string    `db:"description" json:"description"`
	CourseURI          string    `db:"course_uri" json:"course_uri"`
	Price              int64     `db:"price" json:"price"`
	Duration           int64     `db:"duration" json:"duration"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	RequiresAssessment bool      `db:"requires_assessment" json:"requires_assessment"`
	CertificateID      int64     `db:"certificate_id" json:"certificate_id"`
	TotalEnrollments   int64     `db:"total_enrollments" json:"total_enrollments"`
	TotalCompletions   int64     `db:"total_completions" json:"total_completions"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Enrollment represents a student's enrollment in a course. Seq records
// global insertion order so per-student and per-course listings replay it.
type Enrollment struct {
	Student           string       `db:"student" json:"student"`
	CourseID          int64        `db:"course_id" json:"course_id"`
	EnrolledAt        time.Time    `db:"enrolled_at" json:"enrolled_at"`
	IsCompleted       bool         `db:"is_completed" json:"is_completed"`
	CertificateIssued bool         `db:"certificate_issued" json:"certificate_issued"`
	CompletedAt       sql.NullTime `db:"completed_at" json:"completed_at"`
	Seq               int64        `db:"seq" json:"-"`
}

// CertificateType represents a credential class registered for a course.
type CertificateType struct {
	CertificateID int64     `db:"certificate_id" json:"certificate_id"`
	CourseID      int64     `db:"course_id" json:"course_id"`
	Creator       string    `db:"creator" json:"creator"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CertificateBalance represents a credential balance in the certificate
// registry, keyed by (holder, certificate type).
type CertificateBalance struct {
	Holder        string `db:"holder" json:"holder"`
	CertificateID int64  `db:"certificate_id" json:"certificate_id"`
	Balance       int64  `db:"balance" json:"balance"`
}

// Event represents a structured record emitted by a command operation.
// The frontend indexer reads these to resolve newly created identifiers.
type Event struct {
	ID        string    `db:"id" json:"id"`
	EventType string    `db:"event_type" json:"event_type"`
	Payload   string    `db:"payload" json:"payload"`
	Seq       int64     `db:"seq" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SystemConfig represents platform-wide configuration stored in the database
type SystemConfig struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
