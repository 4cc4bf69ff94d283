package api

import (
	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/garage"
	"github.com/garageops/garage-scheduling/internal/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Appointments

type AppointmentRequest struct {
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration,omitempty"`
	Bay         string  `json:"bay"`
	ClientID    string  `json:"clientId"`
	CarID       *string `json:"carId,omitempty"`
	ServiceType *string `json:"serviceType,omitempty"`
	ServiceNote *string `json:"serviceNote,omitempty"`
}

type AppointmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Duration       int        `json:"duration"`
	Bay            string     `json:"bay"`
	ClientID       uuid.UUID  `json:"clientId"`
	ClientFullName string     `json:"clientFullName,omitempty"`
	CarID          *uuid.UUID `json:"carId,omitempty"`
	CarInfo        string     `json:"carInfo,omitempty"`
	ServiceType    *string    `json:"serviceType,omitempty"`
	ServiceNote    *string    `json:"serviceNote,omitempty"`
}

func appointmentResponse(a garage.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		Date:        a.Date,
		Time:        a.Time,
		Duration:    a.Duration,
		Bay:         string(a.Bay),
		ClientID:    a.ClientID,
		CarID:       a.CarID,
		ServiceType: a.ServiceType,
		ServiceNote: a.ServiceNote,
	}
}

func appointmentDetailResponse(d garage.AppointmentDetail) AppointmentResponse {
	resp := appointmentResponse(d.Appointment)
	resp.ClientFullName = d.ClientFullName
	resp.CarInfo = d.CarInfo
	return resp
}

func appointmentDetailResponses(details []garage.AppointmentDetail) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, appointmentDetailResponse(d))
	}
	return out
}

// Schedule grid

type SlotResponse struct {
	Time          string `json:"time"`
	EndTime       string `json:"endTime,omitempty"`
	State         string `json:"state"`
	AppointmentID string `json:"appointmentId,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	ServiceType   string `json:"serviceType,omitempty"`
	CarInfo       string `json:"carInfo,omitempty"`
	FirstOfGroup  bool   `json:"isFirstOfGroup,omitempty"`
	LastOfGroup   bool   `json:"isLastOfGroup,omitempty"`
	SlotCount     int    `json:"slotCount,omitempty"`
	Duration      int    `json:"duration,omitempty"`
}

func slotResponses(slots []schedule.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			Time:          s.Time,
			EndTime:       s.EndTime,
			State:         string(s.State),
			AppointmentID: s.BookingID,
			ClientName:    s.ClientName,
			ServiceType:   s.ServiceType,
			CarInfo:       s.CarInfo,
			FirstOfGroup:  s.FirstOfGroup,
			LastOfGroup:   s.LastOfGroup,
			SlotCount:     s.SlotCount,
			Duration:      s.Duration,
		})
	}
	return out
}

// Clients

type ClientRequest struct {
	FirstName string `json:"firstName"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"fullName"`
}

func clientResponse(c garage.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		Name:      c.Name,
		Phone:     c.Phone,
		FullName:  c.FullName(),
	}
}

type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func clientPageResponse(p *garage.Page[garage.Client]) PageResponse[ClientResponse] {
	items := make([]ClientResponse, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, clientResponse(c))
	}
	return PageResponse[ClientResponse]{
		Items:    items,
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// Cars

type CarRequest struct {
	ClientID     string  `json:"clientId"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         *int    `json:"year,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
}

type CarResponse struct {
	ID               uuid.UUID `json:"id"`
	ClientID         uuid.UUID `json:"clientId"`
	Brand            string    `json:"brand"`
	Model            string    `json:"model"`
	Year             *int      `json:"year,omitempty"`
	LicensePlate     *string   `json:"licensePlate,omitempty"`
	ShortDescription string    `json:"shortDescription"`
}

func carResponse(c garage.Car) CarResponse {
	return CarResponse{
		ID:               c.ID,
		ClientID:         c.ClientID,
		Brand:            c.Brand,
		Model:            c.Model,
		Year:             c.Year,
		LicensePlate:     c.LicensePlate,
		ShortDescription: c.ShortDescription(),
	}
}

func carResponses(cars []garage.Car) []CarResponse {
	out := make([]CarResponse, 0, len(cars))
	for _, c := range cars {
		out = append(out, carResponse(c))
	}
	return out
}
