package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"partnerdelivery/internal/core/application/feed"

	"github.com/labstack/echo/v4"
)

const feedHeartbeat = 25 * time.Second

// Feed handles GET /api/v1/feed?view=available|active|profile&matching=true as a
// server-sent event stream. Every event is a full snapshot of the view. The order views
// require an operational account.
//
//	@Summary	Live view of the pool, active orders or profile
//	@Tags		feed
//	@Produce	text/event-stream
//	@Security	BearerAuth
//	@Param		view		query		string	true	"available, active or profile"
//	@Param		matching	query		bool	false	"available view only"
//	@Success	200			{object}	FeedEvent
//	@Failure	403			{object}	Error
//	@Failure	422			{object}	Error
//	@Failure	503			{object}	Error
//	@Router		/feed [get]
func (s *Server) Feed(c echo.Context) error {
	if s.deps.Feed == nil {
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Live updates are not configured",
		})
	}
	ctx := c.Request().Context()
	session := sessionOf(c)
	matching, _ := strconv.ParseBool(c.QueryParam("matching"))
	filter := feed.Filter{
		View:         feed.View(c.QueryParam("view")),
		PartnerID:    session.PartnerID,
		MatchingOnly: matching,
	}

	if filter.View != feed.PartnerProfile {
		if _, err := s.deps.Auth.RequireOperational(ctx, session); err != nil {
			return s.fail(c, err)
		}
	}

	sub, err := s.deps.Feed.Subscribe(ctx, filter)
	if err != nil {
		return s.fail(c, err)
	}
	defer sub.Unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	heartbeat := time.NewTicker(feedHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err = fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case snap, ok := <-sub.Events():
			if !ok {
				return nil
			}
			payload, marshalErr := json.Marshal(toFeedEvent(snap))
			if marshalErr != nil {
				s.logger.ErrorContext(ctx, "feed event not encoded", "error", marshalErr)
				return nil
			}
			if _, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
