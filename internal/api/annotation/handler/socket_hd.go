package annotationHandler

import (
	"UIAnnotator/internal/api/annotation"
	"UIAnnotator/internal/middleware"
	contextPkg "UIAnnotator/pkg/context"
	"UIAnnotator/pkg/log"
	"UIAnnotator/pkg/response"
	"errors"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
	"time"
)

const (
	socketReadTimeout  = 60 * time.Second
	socketWriteTimeout = 10 * time.Second
)

// handlePointerSocket streams pointer events for one session. Each text frame
// is a PointerRequest; each reply carries the pointer result and the frame to
// draw, or an error code.
func (h *AnnotationHandler) handlePointerSocket(c *websocket.Conn) {
	sessionID := c.Params("id")
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)

	logger := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	})
	logger.Info("Pointer WebSocket client connected")
	defer logger.Info("Pointer WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	base := contextPkg.WithSessionID(context.Background(), sessionID)

	for {
		if err := c.SetReadDeadline(time.Now().Add(socketReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Errorf("Pointer WebSocket error: %v", err)
			} else {
				logger.Debug("Pointer WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		reply, err := h.pointerMessage(base, sessionID, message)

		if err := c.SetWriteDeadline(time.Now().Add(socketWriteTimeout)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			logger.Errorf("Error writing JSON response: %v", err)
			break
		}

		if errors.Is(err, annotation.ErrSessionNotFound) {
			break
		}
	}
}

func (h *AnnotationHandler) pointerMessage(base context.Context, sessionID string, message []byte) (annotation.SocketMessage, error) {
	var req annotation.PointerRequest
	if err := jsoniter.Unmarshal(message, &req); err != nil {
		return socketError(annotation.ErrInvalidPointer), annotation.ErrInvalidPointer
	}

	event, err := h.pointerEvent(req)
	if err != nil {
		return socketError(annotation.ErrInvalidPointer), annotation.ErrInvalidPointer
	}

	c, cancel := context.WithTimeout(base, requestTimeout)
	defer cancel()

	resp, err := h.annotationService.Pointer(c, sessionID, event)
	if err != nil {
		return socketError(err), err
	}

	return annotation.SocketMessage{
		Result: &resp.Result,
		Frame:  &resp.Frame,
	}, nil
}

func socketError(err error) annotation.SocketMessage {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return annotation.SocketMessage{Error: respErr.Error(), Code: respErr.Key}
	}
	return annotation.SocketMessage{Error: "An unexpected error occurred", Code: "INTERNAL_ERROR"}
}
