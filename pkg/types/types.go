package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Role is one of the fixed account roles.
type Role string

const (
	RoleSubscriber Role = "Subscriber"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSubscriber, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// RoleSet is a non-exclusive set of roles stored as a text[] column.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles, ignoring unknown values.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set.Add(role)
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether at least one of roles is present.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// Add inserts role when it is valid. Adding twice is a no-op.
func (s RoleSet) Add(role Role) {
	if role.Valid() {
		s[role] = struct{}{}
	}
}

// Remove deletes role from the set.
func (s RoleSet) Remove(role Role) {
	delete(s, role)
}

// Slice returns the roles in stable order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for role := range s {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the roles as plain strings in stable order.
func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

// Value implements driver.Valuer as a postgres text array.
func (s RoleSet) Value() (driver.Value, error) {
	return pq.StringArray(s.Strings()).Value()
}

// Scan implements sql.Scanner from a postgres text array.
func (s *RoleSet) Scan(src interface{}) error {
	var raw pq.StringArray
	if err := raw.Scan(src); err != nil {
		return fmt.Errorf("types.RoleSet: %w", err)
	}
	set := make(RoleSet, len(raw))
	for _, value := range raw {
		set.Add(Role(value))
	}
	*s = set
	return nil
}

// MarshalJSON renders the set as a sorted string array.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON reads a string array, dropping unknown roles.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := make(RoleSet, len(raw))
	for _, value := range raw {
		set.Add(Role(value))
	}
	*s = set
	return nil
}

// GormDataType tells gorm how to migrate the column.
func (RoleSet) GormDataType() string {
	return "text[]"
}

// PaymentStatus is the lifecycle state of a payment intent.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusExpired  PaymentStatus = "expired"
)

// BaseModel contains common fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Money wraps decimal.Decimal for money values
type Money decimal.Decimal

// NewMoney creates Money from float64
func NewMoney(value float64) Money {
	return Money(decimal.NewFromFloat(value))
}

// NewMoneyFromString creates Money from string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money(d), nil
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

// Float64 returns the float64 representation
func (m Money) Float64() float64 {
	return decimal.Decimal(m).InexactFloat64()
}

// String returns string representation
func (m Money) String() string {
	return decimal.Decimal(m).StringFixed(2)
}

// Percent returns pct percent of m.
func (m Money) Percent(pct int64) Money {
	return Money(decimal.Decimal(m).Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)))
}

// MinorUnits converts to the smallest currency unit, rounding half away from zero.
func (m Money) MinorUnits() int64 {
	return decimal.Decimal(m).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// IsPositive returns true if m > 0
func (m Money) IsPositive() bool {
	return decimal.Decimal(m).IsPositive()
}

// IsZero returns true if value is zero
func (m Money) IsZero() bool {
	return decimal.Decimal(m).IsZero()
}

// maxMoney is the largest value a numeric(10,2) column holds.
var maxMoney = decimal.RequireFromString("99999999.99")

// Problem describes why m cannot be stored as a price, or returns "" when it can.
func (m Money) Problem() string {
	d := decimal.Decimal(m)
	switch {
	case d.IsNegative():
		return "Price cannot be negative"
	case !d.Equal(d.Round(2)):
		return "Price can have at most 2 decimal places"
	case d.GreaterThan(maxMoney):
		return "Price must not exceed 99999999.99"
	}
	return ""
}

// Value implements driver.Valuer for database serialization
func (m Money) Value() (driver.Value, error) {
	return decimal.Decimal(m).Value()
}

// Scan implements sql.Scanner for database deserialization
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// MarshalJSON renders a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// GormDataType tells gorm how to migrate the column.
func (Money) GormDataType() string {
	return "numeric(10,2)"
}
