package draft

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/gateway"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/player"
	"github.com/mcdev12/dynasty-auction/go/internal/users"
)

// RoomRequest addresses a room
type RoomRequest struct {
	RoomID string `json:"roomId,omitempty"`
}

type JoinRequest struct {
	RoomID   string `json:"roomId,omitempty"`
	TeamName string `json:"teamName,omitempty"`
}

type NominateRequest struct {
	RoomID        string `json:"roomId,omitempty"`
	PlayerID      string `json:"playerId"`
	StartingPrice int    `json:"startingPrice,omitempty"`
}

type PlaceBidRequest struct {
	RoomID string `json:"roomId,omitempty"`
	Amount int    `json:"amount"`
}

type TogglePauseResponse struct {
	Paused bool `json:"paused"`
}

// Participants resolves the caller named in the participant header
type Participants interface {
	Lookup(id string) (models.Participant, error)
}

// Service exposes the draft App as a Connect service
type Service struct {
	app          *App
	participants Participants
	defaultRoom  string
}

// NewService creates a new draft RPC service
func NewService(app *App, participants Participants, defaultRoom string) *Service {
	return &Service{
		app:          app,
		participants: participants,
		defaultRoom:  defaultRoom,
	}
}

// GetRoom returns a snapshot of the room
func (s *Service) GetRoom(ctx context.Context, req *connect.Request[RoomRequest]) (*connect.Response[models.RoomState], error) {
	room := s.app.Snapshot(ctx, s.roomID(req.Msg.RoomID))
	return connect.NewResponse(&room), nil
}

// Join binds the caller to a team
func (s *Service) Join(ctx context.Context, req *connect.Request[JoinRequest]) (*connect.Response[auction.JoinResult], error) {
	p, err := s.caller(req.Header())
	if err != nil {
		return nil, err
	}
	res, err := s.app.Join(ctx, s.roomID(req.Msg.RoomID), p, req.Msg.TeamName)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&res), nil
}

// StartDraft starts the draft in the room
func (s *Service) StartDraft(ctx context.Context, req *connect.Request[RoomRequest]) (*connect.Response[models.RoomState], error) {
	p, err := s.caller(req.Header())
	if err != nil {
		return nil, err
	}
	roomID := s.roomID(req.Msg.RoomID)
	if err := s.app.StartDraft(ctx, roomID, p); err != nil {
		return nil, toConnectError(err)
	}
	room := s.app.Snapshot(ctx, roomID)
	return connect.NewResponse(&room), nil
}

// Nominate opens an auction for a player
func (s *Service) Nominate(ctx context.Context, req *connect.Request[NominateRequest]) (*connect.Response[models.RoomState], error) {
	p, err := s.caller(req.Header())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Msg.PlayerID) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("playerId is required"))
	}
	roomID := s.roomID(req.Msg.RoomID)
	if err := s.app.Nominate(ctx, roomID, p, req.Msg.PlayerID, req.Msg.StartingPrice); err != nil {
		return nil, toConnectError(err)
	}
	room := s.app.Snapshot(ctx, roomID)
	return connect.NewResponse(&room), nil
}

// PlaceBid bids for the caller's team
func (s *Service) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[models.Bid], error) {
	p, err := s.caller(req.Header())
	if err != nil {
		return nil, err
	}
	bid, err := s.app.PlaceBid(ctx, s.roomID(req.Msg.RoomID), p, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&bid), nil
}

// TogglePause pauses or resumes the draft
func (s *Service) TogglePause(ctx context.Context, req *connect.Request[RoomRequest]) (*connect.Response[TogglePauseResponse], error) {
	p, err := s.caller(req.Header())
	if err != nil {
		return nil, err
	}
	paused, err := s.app.TogglePause(ctx, s.roomID(req.Msg.RoomID), p)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TogglePauseResponse{Paused: paused}), nil
}

func (s *Service) roomID(id string) string {
	if id == "" {
		return s.defaultRoom
	}
	return id
}

func (s *Service) caller(h http.Header) (models.Participant, error) {
	id := h.Get(gateway.ParticipantHeader)
	if id == "" {
		return models.Participant{}, connect.NewError(connect.CodeUnauthenticated, errors.New("missing "+gateway.ParticipantHeader+" header"))
	}
	p, err := s.participants.Lookup(id)
	if err != nil {
		return models.Participant{}, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return p, nil
}

// RejectionCodeKey is the error metadata key carrying the rejection code
const RejectionCodeKey = "Rejection-Code"

func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, auction.ErrNotAuthorized):
		code = connect.CodePermissionDenied
	case errors.Is(err, auction.ErrTeamNotFound), errors.Is(err, player.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, auction.ErrBidTooLow),
		errors.Is(err, auction.ErrBudgetExceeded),
		errors.Is(err, auction.ErrInvalidMessage):
		code = connect.CodeInvalidArgument
	case errors.Is(err, auction.ErrRoomClosed):
		code = connect.CodeUnavailable
	case errors.Is(err, users.ErrUnknownParticipant):
		code = connect.CodeUnauthenticated
	case auction.IsRejection(err):
		code = connect.CodeFailedPrecondition
	default:
		code = connect.CodeInternal
	}

	cerr := connect.NewError(code, err)
	if errors.Is(err, player.ErrNotFound) {
		cerr.Meta().Set(RejectionCodeKey, "PlayerNotFound")
	} else {
		cerr.Meta().Set(RejectionCodeKey, auction.Code(err))
	}
	return cerr
}

// loggingInterceptor logs every unary call with its outcome
func loggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)
			evt := log.Debug()
			if err != nil && connect.CodeOf(err) == connect.CodeInternal {
				evt = log.Error()
			}
			evt.Err(err).
				Str("procedure", req.Spec().Procedure).
				Dur("duration", time.Since(start)).
				Msg("rpc handled")
			return res, err
		}
	}
}

// NewAuctionServiceHandler builds an HTTP handler serving every AuctionService
// procedure. It returns the path to mount the handler on.
func NewAuctionServiceHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return "", nil, err
	}
	methods := sd.Methods()

	opts = append([]connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(loggingInterceptor()),
	}, opts...)
	with := func(name string, extra ...connect.HandlerOption) []connect.HandlerOption {
		o := append([]connect.HandlerOption{connect.WithSchema(methods.ByName(protoName(name)))}, opts...)
		return append(o, extra...)
	}

	getRoom := connect.NewUnaryHandler(procedure("GetRoom"), svc.GetRoom,
		with("GetRoom", connect.WithIdempotency(connect.IdempotencyNoSideEffects))...)
	join := connect.NewUnaryHandler(procedure("Join"), svc.Join, with("Join")...)
	startDraft := connect.NewUnaryHandler(procedure("StartDraft"), svc.StartDraft, with("StartDraft")...)
	nominate := connect.NewUnaryHandler(procedure("Nominate"), svc.Nominate, with("Nominate")...)
	placeBid := connect.NewUnaryHandler(procedure("PlaceBid"), svc.PlaceBid, with("PlaceBid")...)
	togglePause := connect.NewUnaryHandler(procedure("TogglePause"), svc.TogglePause, with("TogglePause")...)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case procedure("GetRoom"):
			getRoom.ServeHTTP(w, r)
		case procedure("Join"):
			join.ServeHTTP(w, r)
		case procedure("StartDraft"):
			startDraft.ServeHTTP(w, r)
		case procedure("Nominate"):
			nominate.ServeHTTP(w, r)
		case procedure("PlaceBid"):
			placeBid.ServeHTTP(w, r)
		case procedure("TogglePause"):
			togglePause.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return "/" + AuctionServiceName + "/", handler, nil
}
