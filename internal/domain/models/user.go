package models

import "liquidaciones/internal/domain"

// Usuario is the authenticated account behind every audit field.
type Usuario struct {
	ID       int64      `json:"id"`
	Nombre   string     `json:"nombre"`
	Apellido string     `json:"apellido"`
	Email    string     `json:"email"`
	Rol      domain.Rol `json:"rol"`
	Activo   bool       `json:"activo"`
}
