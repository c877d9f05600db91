package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/helpful/internal/app"
	apperrors "github.com/pscheid92/helpful/internal/platform/errors"
	"github.com/pscheid92/helpful/internal/stats"
)

const dateLayout = "2006-01-02"

// maxRangeDays bounds the buckets a single range request can produce.
const maxRangeDays = 3660

func (s *Server) registerAPIRoutes(g *echo.Group) {
	g.GET("/stats/:period", s.handleStats)
	g.GET("/items/:id/pro", s.handleItemCount(sidePro))
	g.GET("/items/:id/contra", s.handleItemCount(sideContra))
	g.DELETE("/items/:id/cache", s.handleInvalidateItem)
	g.GET("/totals", s.handleTotals)
	g.GET("/rankings/:name", s.handleRanking)
	g.GET("/years", s.handleYears)
}

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	year, err := queryInt(c, "year", 1970, 9999)
	if err != nil {
		return err
	}

	var series app.Series
	switch period := c.Param("period"); period {
	case "today":
		series = s.app.StatsToday(ctx, year)
	case "yesterday":
		series = s.app.StatsYesterday(ctx, year)
	case "week":
		series = s.app.StatsWeek(ctx, year)
	case "month":
		month, err := queryInt(c, "month", 1, 12)
		if err != nil {
			return err
		}
		series = s.app.StatsMonth(ctx, year, time.Month(month))
	case "year":
		series = s.app.StatsYear(ctx, year)
	case "range":
		from, err := s.queryDate(c, "from")
		if err != nil {
			return err
		}
		to, err := s.queryDate(c, "to")
		if err != nil {
			return err
		}
		if to.Before(from) {
			return apperrors.ValidationError("to must not be before from").
				WithField("from", c.QueryParam("from")).
				WithField("to", c.QueryParam("to"))
		}
		if to.After(from.AddDate(0, 0, maxRangeDays-1)) {
			return apperrors.ValidationError(fmt.Sprintf("range must not span more than %d days", maxRangeDays)).
				WithField("from", c.QueryParam("from")).
				WithField("to", c.QueryParam("to"))
		}
		series = s.app.StatsRange(ctx, from, to)
	case "total":
		series = s.app.StatsTotal(ctx)
	default:
		return apperrors.NotFoundError("unknown period").WithField("period", period)
	}

	if err := c.JSON(http.StatusOK, series); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type itemCountResponse struct {
	ItemID int64  `json:"item_id"`
	Side   string `json:"side"`
	Count  int64  `json:"count"`
}

type itemPercentageResponse struct {
	ItemID     int64            `json:"item_id"`
	Side       string           `json:"side"`
	Percentage stats.Percentage `json:"percentage"`
}

const (
	sidePro    = "pro"
	sideContra = "contra"
)

// handleItemCount serves the raw count of one side, or its share of the
// item's votes with ?percentage=true.
func (s *Server) handleItemCount(side string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		itemID, err := pathItemID(c)
		if err != nil {
			return err
		}

		var body any
		switch percentage := c.QueryParam("percentage") == "true"; {
		case side == sidePro && percentage:
			body = itemPercentageResponse{ItemID: itemID, Side: side, Percentage: s.app.ProPercentage(ctx, itemID)}
		case side == sideContra && percentage:
			body = itemPercentageResponse{ItemID: itemID, Side: side, Percentage: s.app.ContraPercentage(ctx, itemID)}
		case side == sidePro:
			body = itemCountResponse{ItemID: itemID, Side: side, Count: s.app.Pro(ctx, itemID)}
		default:
			body = itemCountResponse{ItemID: itemID, Side: side, Count: s.app.Contra(ctx, itemID)}
		}

		if err := c.JSON(http.StatusOK, body); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}
}

func (s *Server) handleInvalidateItem(c echo.Context) error {
	itemID, err := pathItemID(c)
	if err != nil {
		return err
	}

	if err := s.app.InvalidateItem(c.Request().Context(), itemID); err != nil {
		return apperrors.ExternalError("failed to purge cached counts", err).WithField("item_id", itemID)
	}

	return c.NoContent(http.StatusNoContent)
}

type totalsResponse struct {
	Pro              int64            `json:"pro"`
	Contra           int64            `json:"contra"`
	ProPercentage    stats.Percentage `json:"pro_percentage"`
	ContraPercentage stats.Percentage `json:"contra_percentage"`
}

func (s *Server) handleTotals(c echo.Context) error {
	ctx := c.Request().Context()

	resp := totalsResponse{
		Pro:              s.app.ProAll(ctx),
		Contra:           s.app.ContraAll(ctx),
		ProPercentage:    s.app.ProAllPercentage(ctx),
		ContraPercentage: s.app.ContraAllPercentage(ctx),
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleRanking(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := queryInt(c, "limit", 1, 100)
	if err != nil {
		return err
	}

	var body any
	switch name := c.Param("name"); name {
	case "most-helpful":
		body = s.app.MostHelpful(ctx, limit)
	case "least-helpful":
		body = s.app.LeastHelpful(ctx, limit)
	case "recently-pro":
		body = s.app.RecentlyPro(ctx, limit)
	case "recently-contra":
		body = s.app.RecentlyContra(ctx, limit)
	default:
		return apperrors.NotFoundError("unknown ranking").WithField("name", name)
	}

	if err := c.JSON(http.StatusOK, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleYears(c echo.Context) error {
	years := s.app.ListYears(c.Request().Context())
	if err := c.JSON(http.StatusOK, map[string][]int{"years": years}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func pathItemID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationError("invalid item id").WithField("id", raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. Absent means 0.
func queryInt(c echo.Context, name string, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, apperrors.ValidationError(fmt.Sprintf("%s must be between %d and %d", name, lo, hi)).WithField(name, raw)
	}
	return n, nil
}

// queryDate parses a required YYYY-MM-DD parameter in the reporting time zone.
func (s *Server) queryDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	t, err := time.ParseInLocation(dateLayout, raw, s.config.Location())
	if err != nil {
		return time.Time{}, apperrors.ValidationError(name+" must be a YYYY-MM-DD date").WithField(name, raw)
	}
	return t, nil
}
