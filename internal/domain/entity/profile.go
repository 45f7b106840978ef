package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a bank identity a transfer can be directed at.
type Profile struct {
	id            uuid.UUID
	email         string
	fullName      string
	accountNumber string
	createdAt     time.Time
}

func NewProfile(email, fullName, accountNumber string) *Profile {
	return &Profile{
		id:            uuid.New(),
		email:         email,
		fullName:      fullName,
		accountNumber: accountNumber,
		createdAt:     time.Now(),
	}
}

func ReconstructProfile(id uuid.UUID, email, fullName, accountNumber string, createdAt time.Time) *Profile {
	return &Profile{
		id:            id,
		email:         email,
		fullName:      fullName,
		accountNumber: accountNumber,
		createdAt:     createdAt,
	}
}

func (p *Profile) ID() uuid.UUID {
	return p.id
}

func (p *Profile) Email() string {
	return p.email
}

func (p *Profile) FullName() string {
	return p.fullName
}

func (p *Profile) AccountNumber() string {
	return p.accountNumber
}

func (p *Profile) CreatedAt() time.Time {
	return p.createdAt
}
