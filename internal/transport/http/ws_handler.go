package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"game-arena/internal/app"
	"game-arena/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type valuePayload struct {
	Value string `json:"value"`
}

type tapPayload struct {
	CardID string `json:"cardId"`
}

type modePayload struct {
	Mode domain.RPSMode `json:"mode"`
}

type playPayload struct {
	Choice domain.Hand `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and binds one game session to
// the connection. Closing the connection ends the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind := query.Get("game")
	studentID, errStudent := domain.ParseID(query.Get("studentId"))
	moduleID, errModule := domain.ParseID(query.Get("moduleId"))
	if kind == "" || errStudent != nil || errModule != nil {
		http.Error(w, "missing game, studentId, or moduleId", http.StatusBadRequest)
		return
	}
	if kind != app.KindQuiz && kind != app.KindMatching && kind != app.KindRPS {
		http.Error(w, "unknown game", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	started, err := h.start(ctx, kind, studentID, moduleID, domain.RPSMode(query.Get("mode")))
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := started.SessionID
	defer h.service.End(context.Background(), sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer goroutine; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// The reader never waits on dispatch, so a disconnect ends the session even
	// while an action is blocked on score submission.
	inbound := make(chan inboundMessage, 16)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				h.service.End(context.Background(), sessionID)
				return
			}
			select {
			case inbound <- msg:
			default:
				h.log.Warn("ws inbound queue full, message dropped",
					zap.String("session_id", sessionID),
					zap.String("type", msg.Type),
				)
			}
		}
	}()

loop:
	for {
		select {
		case msg := <-inbound:
			if err := h.dispatch(ctx, sessionID, msg); err != nil {
				select {
				case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
				case <-writerDone:
				}
			}
		case <-readerDone:
			break loop
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) start(ctx context.Context, kind string, studentID, moduleID int64, mode domain.RPSMode) (domain.Snapshot, error) {
	switch kind {
	case app.KindQuiz:
		return h.service.StartQuiz(ctx, studentID, moduleID)
	case app.KindMatching:
		return h.service.StartMatching(ctx, studentID, moduleID)
	default:
		return h.service.StartRPS(ctx, studentID, moduleID, mode)
	}
}

var errBadPayload = errors.New("invalid payload")

// dispatch applies one client action; the resulting state arrives through the subscription.
func (h *WSHandler) dispatch(ctx context.Context, sessionID string, in inboundMessage) error {
	var err error
	switch in.Type {
	case "dismissInstructions":
		_, err = h.service.DismissInstructions(ctx, sessionID)
	case "openHint":
		_, err = h.service.OpenHint(ctx, sessionID)
	case "closeHint":
		_, err = h.service.CloseHint(ctx, sessionID)
	case "useHint":
		_, err = h.service.UseHint(ctx, sessionID)
	case "next":
		_, err = h.service.Advance(ctx, sessionID)
	case "answer":
		var p valuePayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return errBadPayload
		}
		_, err = h.service.SelectAnswer(ctx, sessionID, p.Value)
	case "tap":
		var p tapPayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return errBadPayload
		}
		_, err = h.service.TapCard(ctx, sessionID, p.CardID)
	case "mode":
		var p modePayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return errBadPayload
		}
		_, err = h.service.ChooseMode(ctx, sessionID, p.Mode)
	case "play":
		var p playPayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return errBadPayload
		}
		_, err = h.service.Play(ctx, sessionID, p.Choice)
	case "bonus":
		var p valuePayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return errBadPayload
		}
		_, err = h.service.AnswerBonus(ctx, sessionID, p.Value)
	default:
		return errors.New("unsupported message type")
	}
	return err
}
