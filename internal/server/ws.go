package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/highlight"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string   `json:"type"` // "query", "navigate", "term" or "hide"
	Query     string   `json:"query,omitempty"`
	Chapters  []string `json:"chapters,omitempty"`
	Direction string   `json:"direction,omitempty"` // "next" or "previous"
	Term      string   `json:"term,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string            `json:"type"` // "result", "active" or "error"
	SessionID string            `json:"session_id"`
	Markup    string            `json:"markup,omitempty"`
	Terms     []string          `json:"terms,omitempty"`
	Counts    map[string]int    `json:"counts,omitempty"`
	Quality   *highlight.Quality `json:"quality,omitempty"`
	Term      string            `json:"term,omitempty"`
	Index     int               `json:"index,omitempty"`
	Total     int               `json:"total,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// handleWebSocket runs one live highlight session per connection: the
// client sends queries and navigation commands, the server answers with
// annotated markup, match counts and the active occurrence.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	session := highlight.NewSession(s.log)
	defer session.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError(conn, sessionID, "invalid message format")
			continue
		}

		switch req.Type {
		case "query":
			s.handleQueryMessage(conn, r, sessionID, session, req)
		case "navigate":
			s.handleNavigateMessage(conn, sessionID, session, req)
		case "term":
			if !session.SetActiveTerm(req.Term) {
				s.sendError(conn, sessionID, "term has no matches: "+req.Term)
				continue
			}
			s.sendActive(conn, sessionID, session)
		case "hide":
			session.Hide()
		default:
			s.sendError(conn, sessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleQueryMessage(conn *websocket.Conn, r *http.Request, sessionID string, session *highlight.Session, req wsRequest) {
	if req.Query == "" {
		s.sendError(conn, sessionID, "query is required")
		return
	}

	chapters, err := s.loadAll(r, req.Chapters)
	if err != nil {
		s.sendError(conn, sessionID, "loading chapters: "+err.Error())
		return
	}

	session.SetQuery(req.Query)
	if err := session.SetContent(s.renderer.RenderDocument(chapters, s.log)); err != nil {
		s.sendError(conn, sessionID, "rendering: "+err.Error())
		return
	}

	markup, err := session.Markup()
	if err != nil {
		s.sendError(conn, sessionID, "serializing: "+err.Error())
		return
	}

	quality := session.Quality()
	s.send(conn, wsResponse{
		Type:      "result",
		SessionID: sessionID,
		Markup:    markup,
		Terms:     session.Terms(),
		Counts:    session.MatchCounts(),
		Quality:   &quality,
	})
}

func (s *Server) handleNavigateMessage(conn *websocket.Conn, sessionID string, session *highlight.Session, req wsRequest) {
	var ok bool
	if req.Direction == "previous" {
		_, ok = session.Prev()
	} else {
		_, ok = session.Next()
	}
	if !ok {
		s.sendError(conn, sessionID, "no matches to navigate")
		return
	}
	s.sendActive(conn, sessionID, session)
}

func (s *Server) sendActive(conn *websocket.Conn, sessionID string, session *highlight.Session) {
	match, total, ok := session.ActiveMatch()
	if !ok {
		s.sendError(conn, sessionID, "no active match")
		return
	}
	s.send(conn, wsResponse{
		Type:      "active",
		SessionID: sessionID,
		Term:      match.Term,
		Index:     match.Index,
		Total:     total,
	})
}

func (s *Server) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write", zap.Error(err))
	}
}

func (s *Server) sendError(conn *websocket.Conn, sessionID, message string) {
	s.send(conn, wsResponse{Type: "error", SessionID: sessionID, Message: message})
}
