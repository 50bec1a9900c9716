package domain

import "time"

// BirthDateLayout задаёт формат даты рождения для отображения (ДД/ММ/ГГГГ).
const BirthDateLayout = "02/01/2006"

// Customer описывает клиента
type Customer struct {
	ID        int64
	Name      string
	TaxID     string
	BirthDate time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCustomer(name, taxID string, birthDate time.Time) *Customer {
	return &Customer{
		Name:      name,
		TaxID:     taxID,
		BirthDate: birthDate,
	}
}

func (c *Customer) BirthDateFormatted() string {
	if c.BirthDate.IsZero() {
		return ""
	}
	return c.BirthDate.Format(BirthDateLayout)
}
