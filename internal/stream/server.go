package stream

import (
	"errors"
	"io"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"couple-scheduler/internal/realtime"
)

type Server struct {
	presence   realtime.Presence
	verify     realtime.Verifier
	outboxSize int
	log        *zap.Logger
}

func NewServer(p realtime.Presence, v realtime.Verifier, outboxSize int, log *zap.Logger) *Server {
	return &Server{presence: p, verify: v, outboxSize: outboxSize, log: log}
}

// Connect runs one client connection. Incoming frames are read on a
// separate goroutine; only this goroutine sends.
func (s *Server) Connect(stream ConnectServer) error {
	out := realtime.NewOutbox(s.outboxSize)
	sess := realtime.NewSession(s.presence, s.verify, out, s.log)
	defer sess.Close()

	recvErr := make(chan error, 1)
	go func() {
		for {
			m, err := stream.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			s.handle(sess, m)
		}
	}()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case err := <-recvErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case ev := <-out.Events():
			m, err := Encode(ev)
			if err != nil {
				s.log.Error("encode event", zap.String("event", string(ev.Kind)), zap.Error(err))
				continue
			}
			if err := stream.Send(m); err != nil {
				return status.Errorf(codes.Unavailable, "send: %v", err)
			}
		}
	}
}

func (s *Server) handle(sess *realtime.Session, m *structpb.Struct) {
	switch t := frameType(m); t {
	case typeAuthenticate:
		// failures are reported to the client as auth-error frames
		_, _ = sess.Authenticate(frameToken(m))
	default:
		s.log.Debug("ignoring client frame", zap.String("type", t), zap.String("user_id", sess.UserID()))
	}
}
