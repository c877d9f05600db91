package httpserver

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/helpful/internal/content"
	apperrors "github.com/pscheid92/helpful/internal/platform/errors"
)

type feedEntry struct {
	side  string
	entry content.RecentEntry
}

// handleRecentFeed publishes the newest pro and contra votes as one Atom
// feed, newest first.
func (s *Server) handleRecentFeed(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := queryInt(c, "limit", 1, 100)
	if err != nil {
		return err
	}

	var entries []feedEntry
	for _, e := range s.app.RecentlyPro(ctx, limit) {
		entries = append(entries, feedEntry{side: sidePro, entry: e})
	}
	for _, e := range s.app.RecentlyContra(ctx, limit) {
		entries = append(entries, feedEntry{side: sideContra, entry: e})
	}
	slices.SortStableFunc(entries, func(a, b feedEntry) int {
		return cmp.Compare(b.entry.VotedAt.UnixNano(), a.entry.VotedAt.UnixNano())
	})

	baseURL := s.getBaseURL(c)
	updated := s.clock.Now()
	if len(entries) > 0 {
		updated = entries[0].entry.VotedAt
	}

	feed := &feeds.Feed{
		Title:       "Recent feedback",
		Description: "The newest helpful and unhelpful votes",
		Link:        &feeds.Link{Href: baseURL + "/feeds/recent.atom", Rel: "self", Type: "application/atom+xml"},
		Id:          baseURL + "/feeds/recent.atom",
		Updated:     updated,
	}

	for _, fe := range entries {
		feed.Items = append(feed.Items, feedItem(baseURL, fe))
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return apperrors.InternalError("failed to render feed", err)
	}

	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}

func feedItem(baseURL string, fe feedEntry) *feeds.Item {
	e := fe.entry

	name := e.Name
	if name == "" {
		name = fmt.Sprintf("Item #%d", e.ID)
	}
	label := "Pro"
	if fe.side == sideContra {
		label = "Contra"
	}

	item := &feeds.Item{
		Title:       fmt.Sprintf("%s: %s", label, name),
		Id:          fmt.Sprintf("%s/items/%d/%s/%d", baseURL, e.ID, fe.side, e.VotedAt.Unix()),
		Description: fmt.Sprintf("Net %s%% for this item. %s.", e.Percentage.Display, e.Time),
		Created:     e.VotedAt.In(time.UTC),
	}
	if e.Time == "" {
		item.Description = fmt.Sprintf("Net %s%% for this item.", e.Percentage.Display)
	}
	if e.URL != "" {
		item.Link = &feeds.Link{Href: e.URL, Rel: "alternate", Type: "text/html"}
	} else {
		item.Link = &feeds.Link{Href: fmt.Sprintf("%s/api/items/%d/%s", baseURL, e.ID, fe.side), Rel: "related", Type: "application/json"}
	}
	return item
}
