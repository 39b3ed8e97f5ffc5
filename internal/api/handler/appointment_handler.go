package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/ports"
)

type AppointmentHandler struct {
	appointments ports.AppointmentService
}

func NewAppointmentHandler(appointments ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type bookAppointmentRequest struct {
	Patient string `json:"patient" validate:"omitempty,max=100"`
	Contact string `json:"contact" validate:"omitempty,max=100"`
	Doctor  string `json:"doctor"  validate:"required,provider"`
	Date    string `json:"date"    validate:"required,datetime=2006-01-02"`
	Time    string `json:"time"    validate:"required,clock"`
	Reason  string `json:"reason"  validate:"max=1000"`
}

// Book records an appointment request. Patient defaults to the username.
//
// @Summary   Book appointment
// @Tags      appointments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      bookAppointmentRequest  true  "Appointment"
// @Success   201   {object}  domain.Appointment
// @Failure   401   {object}  map[string]string
// @Failure   422   {object}  map[string]string
// @Router    /v1/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req bookAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patient := req.Patient
	if patient == "" {
		patient = sess.Username
	}
	appt, err := h.appointments.Book(c.Request().Context(), ports.BookAppointmentInput{
		Patient:  patient,
		Contact:  req.Contact,
		Provider: req.Doctor,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appt)
}

// List returns the appointments booked under the caller's username.
//
// @Summary   My appointments
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Success   200   {array}   domain.Appointment
// @Failure   401   {object}  map[string]string
// @Failure   503   {object}  map[string]string
// @Router    /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	appts, err := h.appointments.List(c.Request().Context(), sess.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appts)
}
