package handler

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// MovieHandler serves the catalog.
type MovieHandler struct {
	Catalog *service.Catalog
	Log     *zap.Logger
	Now     func() time.Time
}

func NewMovieHandler(catalog *service.Catalog, log *zap.Logger) *MovieHandler {
	return &MovieHandler{Catalog: catalog, Log: log, Now: time.Now}
}

type addMovieReq struct {
	Title      string   `json:"title" validate:"required"`
	Genre      string   `json:"genre"`
	Theaters   []string `json:"theaters" validate:"required,min=1"`
	Showtimes  []string `json:"showtimes"`
	Showtime   string   `json:"showtime"`
	PriceCents int64    `json:"price_cents" validate:"gte=0"`
	Price      float64  `json:"price" validate:"gte=0"`
	Rating     string   `json:"rating"`
	Poster     string   `json:"poster" validate:"omitempty,url"`
	Trailer    string   `json:"trailer" validate:"omitempty,url"`
}

type movieDetail struct {
	model.Movie
	Dates   []string                    `json:"dates"`
	Layouts map[string]model.SeatLayout `json:"layouts"`
}

// List returns the catalog, optionally filtered by ?q=.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Catalog.List(ctx, c.QueryParam("q"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// Get returns one movie with its bookable dates and theater layouts.
func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Catalog.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	layouts := make(map[string]model.SeatLayout, len(m.Theaters))
	for _, t := range m.Theaters {
		layouts[t] = model.LayoutFor(t)
	}
	return c.JSON(http.StatusOK, movieDetail{Movie: m, Dates: service.Dates(h.Now()), Layouts: layouts})
}

// Add creates a catalog entry.  Admin only.
func (h *MovieHandler) Add(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	var req addMovieReq
	if msg, ok := decode(c, &req); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	showtimes := req.Showtimes
	if s := strings.TrimSpace(req.Showtime); s != "" {
		showtimes = append(showtimes, s)
	}
	price := req.PriceCents
	if price == 0 && req.Price > 0 {
		price = int64(math.Round(req.Price * 100))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.Catalog.AddMovie(ctx, id, service.MovieInput{
		Title:      req.Title,
		Genre:      req.Genre,
		Theaters:   req.Theaters,
		Showtimes:  showtimes,
		PriceCents: price,
		Rating:     req.Rating,
		Poster:     req.Poster,
		Trailer:    req.Trailer,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, m)
}
