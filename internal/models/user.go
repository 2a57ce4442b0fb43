package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	RoleSender   = "sender"
	RoleTraveler = "traveler"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	CPF          string    `json:"cpf,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// NormalizeCPF strips punctuation from a Brazilian CPF ("123.456.789-00" -> "12345678900").
func NormalizeCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Name)) < 3 {
		return errors.New("name too short")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	switch u.Role {
	case RoleSender, RoleTraveler, RoleAdmin:
	case "":
		u.Role = RoleSender
	default:
		return errors.New("unknown role")
	}
	if u.CPF != "" {
		u.CPF = NormalizeCPF(u.CPF)
		if len(u.CPF) != 11 {
			return errors.New("cpf must have 11 digits")
		}
	}
	return nil
}
