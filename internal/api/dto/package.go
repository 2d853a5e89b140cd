package dto

import (
	"bytes"
	"delivery-tracker/internal/domain"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Destination is a package destination. The backend sends it as a JSON
// document encoded inside a string; a plain object is accepted too.
type Destination struct {
	Latitude  domain.Degrees `json:"latitude"`
	Longitude domain.Degrees `json:"longitude"`
}

func (d *Destination) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("decode destination: %w", err)
		}
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		b = []byte(raw)
	}

	type plain Destination
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode destination: %w", err)
	}
	*d = Destination(p)
	return nil
}

func (d Destination) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: float64(d.Latitude), Lng: float64(d.Longitude)}
}

// Timestamp accepts RFC3339 and zone-less ISO timestamps. Empty and null
// decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("decode timestamp: unsupported format %q", s)
}

type ClientResponse struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

type DriverResponse struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	CNH   string `json:"cnh"`
	Email string `json:"email"`
}

type PackageResponse struct {
	ID              string         `json:"id"`
	Destino         Destination    `json:"destino"`
	Status          string         `json:"status"`
	CodigoRastreio  string         `json:"codigo_Rastreio"`
	DataCriacao     Timestamp      `json:"data_Criacao"`
	DataAtualizacao Timestamp      `json:"data_Atualizacao"`
	DataEntrega     Timestamp      `json:"data_Entrega"`
	Cliente         ClientResponse `json:"cliente"`
	Motorista       DriverResponse `json:"motorista"`
}

// ToDomain maps the wire package onto the domain model. Unknown statuses
// are treated as ASSIGNED: the package was returned for a driver.
func (p PackageResponse) ToDomain() domain.Package {
	status, err := domain.ParseStatus(strings.ToUpper(p.Status))
	if err != nil {
		status = domain.StatusAssigned
	}

	pkg := domain.Package{
		ID:           p.ID,
		TrackingCode: p.CodigoRastreio,
		Destination:  p.Destino.Coordinates(),
		Status:       status,
		ClientID:     p.Cliente.ID,
		ClientName:   p.Cliente.Nome,
		DriverID:     p.Motorista.ID,
		DriverName:   p.Motorista.Nome,
		CreatedAt:    p.DataCriacao.Time,
		UpdatedAt:    p.DataAtualizacao.Time,
	}
	if !p.DataEntrega.IsZero() {
		at := p.DataEntrega.Time
		pkg.DeliveredAt = &at
	}
	return pkg
}

type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type AssociateDriverRequest struct {
	DriverID    string   `json:"idMotorista"`
	PackageIDs  []string `json:"packages_ids"`
	Localizacao Location `json:"localizacao"`
}
