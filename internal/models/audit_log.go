package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is a dotted "<area>.<verb>" event name kept in the audit trail.
type AuditAction string

const (
	AuditActionRegister       AuditAction = "auth.register"
	AuditActionLogin          AuditAction = "auth.login"
	AuditActionFailedLogin    AuditAction = "auth.login_failed"
	AuditActionTokenRefresh   AuditAction = "auth.refresh"
	AuditActionLogout         AuditAction = "auth.logout"
	AuditActionProfileUpdated AuditAction = "profile.update"

	AuditActionCreate AuditAction = "record.create"
	AuditActionUpdate AuditAction = "record.update"
	AuditActionDelete AuditAction = "record.delete"

	AuditActionReportGenerated AuditAction = "report.generate"
)

var auditActions = map[AuditAction]bool{
	AuditActionRegister:        true,
	AuditActionLogin:           true,
	AuditActionFailedLogin:     true,
	AuditActionTokenRefresh:    true,
	AuditActionLogout:          true,
	AuditActionProfileUpdated:  true,
	AuditActionCreate:          true,
	AuditActionUpdate:          true,
	AuditActionDelete:          true,
	AuditActionReportGenerated: true,
}

// Valid reports whether a is one of the actions budgetron records.
func (a AuditAction) Valid() bool {
	return auditActions[a]
}

// Verb is the part after the area, e.g. "login" for auth.login. Metrics use
// it as their operation label.
func (a AuditAction) Verb() string {
	_, verb, found := strings.Cut(string(a), ".")
	if !found {
		return string(a)
	}
	return verb
}

// AuditResource names the kind of record an audit entry points at.
type AuditResource string

const (
	AuditResourceUser     AuditResource = "user"
	AuditResourceRole     AuditResource = "role"
	AuditResourceCategory AuditResource = "category"
	AuditResourceReport   AuditResource = "report"
)

// AuditLog is one entry of a user's activity trail. UserID is nil for
// anonymous events such as a login with an unknown email.
type AuditLog struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     AuditAction   `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   AuditResource `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string        `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string        `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string        `gorm:"type:text" json:"user_agent,omitempty"`
	Details    AuditDetails  `gorm:"column:metadata;type:text" json:"details,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now().UTC()
	}
	return nil
}

// AuditDetails holds free-form context such as the changed fields or the
// report month. It is stored as JSON text so sqlite and postgres share a schema.
type AuditDetails map[string]interface{}

func (d AuditDetails) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]interface{}(d))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (d *AuditDetails) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AuditDetails", value)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(raw, (*map[string]interface{})(d))
}
