package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

const qrSize = 256

// BookingHandler serves seat maps, checkout and tickets.
type BookingHandler struct {
	Engine *service.BookingEngine
	Log    *zap.Logger
}

func NewBookingHandler(engine *service.BookingEngine, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Log: log}
}

type bookingReq struct {
	MovieID       string   `json:"movie_id"`
	Movie         string   `json:"movie" validate:"required_without=MovieID"`
	Theater       string   `json:"theater" validate:"required"`
	Date          string   `json:"date" validate:"required"`
	Time          string   `json:"time" validate:"required"`
	Seats         []string `json:"seats" validate:"required,min=1,max=20"`
	PaymentMethod string   `json:"payment_method" validate:"required"`
	CardHolder    string   `json:"card_holder"`
	CardNumber    string   `json:"card_number" validate:"omitempty,luhn"`
	Expiry        string   `json:"expiry"`
	CVV           string   `json:"cvv"`
	UPIID         string   `json:"upi_id"`
}

// ticket is a booking annotated with its QR payload.
type ticket struct {
	model.Booking
	QRPayload string `json:"qr_payload"`
}

func newTicket(b model.Booking) ticket {
	return ticket{Booking: b, QRPayload: b.QRPayload()}
}

// Seats returns the occupied seats and layout of one showing.  The showing
// in the response is spelled the way the catalog spells it.
func (h *BookingHandler) Seats(c echo.Context) error {
	q := model.Showing{
		MovieTitle: c.QueryParam("movie"),
		Theater:    c.QueryParam("theater"),
		Date:       c.QueryParam("date"),
		Time:       c.QueryParam("time"),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	_, s, err := h.Engine.ResolveShowing(ctx, c.QueryParam("movie_id"), q)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	occupied, err := h.Engine.OccupiedSeats(ctx, s)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showing":  s,
		"occupied": occupied,
		"layout":   model.LayoutFor(s.Theater),
	})
}

// Create attempts a booking for the caller.
func (h *BookingHandler) Create(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	var req bookingReq
	if msg, ok := decode(c, &req); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.Attempt(ctx, id, service.BookingRequest{
		MovieID: strings.TrimSpace(req.MovieID),
		Showing: model.Showing{MovieTitle: req.Movie, Theater: req.Theater, Date: req.Date, Time: req.Time},
		Seats:   req.Seats,
		Payment: service.Payment{
			Method:     req.PaymentMethod,
			CardHolder: req.CardHolder,
			CardNumber: req.CardNumber,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
			UPIID:      req.UPIID,
		},
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newTicket(b))
}

// List returns the caller's bookings, each with its QR payload.
func (h *BookingHandler) List(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	bookings, err := h.Engine.ListMine(ctx, id.Username)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]ticket, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newTicket(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// QR renders the ticket QR code as PNG.
func (h *BookingHandler) QR(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.Get(ctx, id, c.Param("id"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	png, err := utils.QRCodePNG(b.QRPayload(), qrSize)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
