package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/sitesearch/internal/widget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveRequest is one input event from the page. An empty Event with a query
// is treated as input.
type liveRequest struct {
	Event string `json:"event"` // "input", "focus" or "blur"
	Query string `json:"query"`
}

type liveResponse struct {
	Event  string       `json:"event"`
	State  widget.State `json:"state"`
	HTML   string       `json:"html,omitempty"`
	Count  int          `json:"count"`
	Hidden bool         `json:"hidden"`
	Error  string       `json:"error,omitempty"`
}

// handleLive runs a search session over a websocket: every input frame is
// answered with the re-rendered results container.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	s.metrics.LiveOpened()
	defer s.metrics.LiveClosed()

	vis := widget.NewVisibility()
	ctx := r.Context()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req liveRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.send(conn, liveResponse{Event: "error", State: s.widget.State(), Hidden: vis.Hidden(), Error: "invalid message format"})
			continue
		}

		switch req.Event {
		case "focus":
			vis.Focus()
			s.send(conn, liveResponse{Event: "focus", State: s.widget.State(), Hidden: vis.Hidden()})
		case "blur":
			vis.Blur()
			s.send(conn, liveResponse{Event: "blur", State: s.widget.State(), Hidden: vis.Hidden()})
		case "", "input":
			v, err := s.widget.HandleInput(ctx, req.Query)
			resp := liveResponse{
				Event:  "input",
				State:  v.State,
				HTML:   v.HTML(),
				Count:  len(v.Results),
				Hidden: vis.Hidden(),
			}
			if err != nil {
				resp.Error = "search unavailable"
			}
			s.send(conn, resp)
		default:
			s.send(conn, liveResponse{Event: "error", State: s.widget.State(), Hidden: vis.Hidden(), Error: "unknown event: " + req.Event})
		}
	}
}

func (s *Server) send(conn *websocket.Conn, resp liveResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn().Err(err).Msg("websocket write")
	}
}
