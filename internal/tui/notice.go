package tui

import (
	"errors"

	"github.com/jask/labyrinth/internal/pathfinding"
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarning
	noticeError
)

// notice is a blocking message; the grid ignores input until it is
// dismissed.
type notice struct {
	level noticeLevel
	title string
	body  string
}

func (a *App) notify(level noticeLevel, title, body string) {
	a.notice = &notice{level: level, title: title, body: body}
	a.status = title
}

// notifyErr maps the run error taxonomy onto notices. No path is not a
// failure, so it is shown as information.
func (a *App) notifyErr(err error) {
	var te *pathfinding.TransportError
	var se *pathfinding.ServiceError
	switch {
	case errors.Is(err, pathfinding.ErrNoPathFound):
		a.notify(noticeInfo, "No path", "No path exists between start and end.")
	case errors.Is(err, pathfinding.ErrMissingEndpoints):
		a.notify(noticeWarning, "Missing endpoints", "Place both a start and an end before running.")
	case errors.As(err, &te):
		a.notify(noticeError, "Request failed", te.Error())
	case errors.As(err, &se):
		a.notify(noticeError, "Service error", se.Message)
	default:
		a.log.WithError(err).Error("unexpected failure")
		a.notify(noticeError, "Error", err.Error())
	}
}
