package socket

import (
	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// Server wraps the Socket.IO server with group-room semantics. Clients join
// their group's room and receive matchFound / tonightOverlap broadcasts.
type Server struct {
	IO  *socketio.Server
	log *zap.SugaredLogger
}

// NewServer initializes the Socket.IO server and its event handlers
func NewServer(logger *zap.SugaredLogger) *Server {
	io := socketio.NewServer(nil)
	srv := &Server{IO: io, log: logger}

	io.OnConnect("/", func(c socketio.Conn) error {
		logger.Debugw("socket connected", "id", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, groupID string) {
		if groupID == "" {
			logger.Warnw("join request without groupId", "id", c.ID())
			return
		}
		io.JoinRoom("/", groupRoom(groupID), c)
	})

	io.OnEvent("/", "leave", func(c socketio.Conn, groupID string) {
		io.LeaveRoom("/", groupRoom(groupID), c)
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		logger.Warnw("socket error", "error", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		logger.Debugw("socket disconnected", "id", c.ID(), "reason", reason)
	})

	return srv
}

// BroadcastToGroup emits an event to every socket in the group's room
func (s *Server) BroadcastToGroup(groupID, event string, payload interface{}) {
	s.IO.BroadcastToRoom("/", groupRoom(groupID), event, payload)
}

func groupRoom(groupID string) string {
	return "group:" + groupID
}
