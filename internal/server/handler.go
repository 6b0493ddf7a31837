package server

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/dicehall/internal/protocol"
	"github.com/udisondev/dicehall/internal/protocol/messages"
)

// dispatch decodes one frame and routes it to the matching handler. It always
// returns exactly one response frame; a handler panic is converted into a
// SERVER_ERROR response instead of killing the connection.
func (s *Server) dispatch(c *Client, data []byte) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panic", "conn", c.id, "panic", r)
			out = errorFrame(protocol.ErrCodeServerError, "Internal server error")
		}
	}()

	cmdID, body, err := protocol.DecodeFrame(data)
	if err != nil {
		if errors.Is(err, protocol.ErrLengthMismatch) {
			return errorFrame(protocol.ErrCodeInvalidFormat, "Packet length mismatch")
		}
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid packet size")
	}

	if c.authenticated && !s.limiter.Allow(c.userID, time.Now()) {
		return errorFrame(protocol.ErrCodeRateLimit, "Rate limit exceeded")
	}

	switch cmdID {
	case protocol.CmdLoginReq:
		return s.handleLogin(c, body)
	case protocol.CmdRoomJoinReq:
		return s.handleRoomJoin(c, body)
	case protocol.CmdSnapshotReq:
		return s.handleSnapshot(c)
	case protocol.CmdBetPlacementReq:
		return s.handleBetPlacement(c, body)
	case protocol.CmdBetFinishedReq:
		return s.handleBetFinished(c, body)
	case protocol.CmdReckonResultReq:
		return s.handleReckonResult(c, body)
	default:
		slog.Warn("unknown command", "conn", c.id, "cmd", fmt.Sprintf("0x%04x", cmdID))
		return errorFrame(protocol.ErrCodeInvalidFormat, fmt.Sprintf("Unknown command: 0x%04x", cmdID))
	}
}

func errorFrame(code uint32, message string) []byte {
	body := (&messages.ErrorResponse{ErrorCode: code, ErrorMessage: message}).Encode()
	return protocol.EncodeFrame(protocol.CmdErrorRsp, body)
}

func authRequiredFrame() []byte {
	return errorFrame(protocol.ErrCodeAuthRequired, "Authentication required")
}

func (s *Server) handleLogin(c *Client, body []byte) []byte {
	var req messages.LoginRequest
	if err := req.Decode(body); err != nil {
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid message format")
	}

	rsp := messages.LoginResponse{}
	user, ok := s.state.Authenticate(req.Username, req.Password)
	if ok {
		s.state.BindConnection(c.id, user.ID)
		c.authenticated = true
		c.userID = user.ID

		rsp.Success = true
		rsp.Message = "Login successful"
		rsp.SessionToken = user.SessionToken
		rsp.UserID = user.ID
		rsp.Balance = user.Balance
		slog.Info("login ok", "conn", c.id, "user", req.Username)
	} else {
		rsp.Message = "Invalid credentials or user already logged in"
		slog.Warn("login failed", "conn", c.id, "user", req.Username)
	}

	return protocol.EncodeFrame(protocol.CmdLoginRsp, rsp.Encode())
}

func (s *Server) handleRoomJoin(c *Client, body []byte) []byte {
	if !c.authenticated {
		return authRequiredFrame()
	}

	var req messages.RoomJoinRequest
	if err := req.Decode(body); err != nil {
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid message format")
	}

	rsp := messages.RoomJoinResponse{}
	if count, jackpot, ok := s.state.JoinRoom(c.userID, req.RoomID); ok {
		rsp.Success = true
		rsp.Message = "Joined room successfully"
		rsp.RoomID = req.RoomID
		rsp.PlayerCount = uint32(count)
		rsp.JackpotPool = jackpot
		slog.Info("room joined", "user", c.userID, "room", req.RoomID)
	} else {
		rsp.Message = "Failed to join room (room full or invalid)"
	}

	return protocol.EncodeFrame(protocol.CmdRoomJoinRsp, rsp.Encode())
}

func (s *Server) handleSnapshot(c *Client) []byte {
	if !c.authenticated {
		return authRequiredFrame()
	}

	snap, ok := s.engine.UserSnapshot(c.userID)
	if !ok {
		return errorFrame(protocol.ErrCodeServerError, "Failed to get snapshot")
	}

	rsp := messages.SnapshotResponse{
		UserBalance: snap.Balance,
		CurrentRoom: snap.CurrentRoom,
		JackpotPool: snap.JackpotPool,
		RoundStatus: uint8(snap.RoundStatus),
	}
	for _, bet := range snap.ActiveBets {
		rsp.ActiveBets = append(rsp.ActiveBets, messages.BetSummary{
			DiceFace: uint32(bet.DiceFace),
			Amount:   bet.Amount,
			BetID:    bet.ID,
			RoundID:  bet.RoundID,
		})
	}

	return protocol.EncodeFrame(protocol.CmdSnapshotRsp, rsp.Encode())
}

func (s *Server) handleBetPlacement(c *Client, body []byte) []byte {
	if !c.authenticated {
		return authRequiredFrame()
	}

	var req messages.BetPlacementRequest
	if err := req.Decode(body); err != nil {
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid message format")
	}

	ok, message, betID, roundID := s.engine.PlaceBet(c.userID, int(req.DiceFace), req.Amount, req.RoundID)
	balance, _ := s.state.Balance(c.userID)

	rsp := messages.BetPlacementResponse{
		Success:          ok,
		Message:          message,
		BetID:            betID,
		RoundID:          roundID,
		RemainingBalance: balance,
	}

	return protocol.EncodeFrame(protocol.CmdBetPlacementRsp, rsp.Encode())
}

func (s *Server) handleBetFinished(c *Client, body []byte) []byte {
	if !c.authenticated {
		return authRequiredFrame()
	}

	var req messages.BetFinishedRequest
	if err := req.Decode(body); err != nil {
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid message format")
	}

	ok, message := s.engine.FinishBetting(c.userID, req.RoundID)

	rsp := messages.BetFinishedResponse{
		Success: ok,
		Message: message,
		RoundID: req.RoundID,
	}

	return protocol.EncodeFrame(protocol.CmdBetFinishedRsp, rsp.Encode())
}

func (s *Server) handleReckonResult(c *Client, body []byte) []byte {
	if !c.authenticated {
		return authRequiredFrame()
	}

	var req messages.ReckonResultRequest
	if err := req.Decode(body); err != nil {
		return errorFrame(protocol.ErrCodeInvalidFormat, "Invalid message format")
	}

	ok, message, result := s.engine.Settle(c.userID, req.RoundID)
	if !ok {
		return errorFrame(protocol.ErrCodeInvalidBet, message)
	}

	rsp := messages.ReckonResultResponse{
		DiceResult:         uint32(result.DiceResult),
		TotalWinnings:      result.TotalWinnings,
		NewBalance:         result.NewBalance,
		UpdatedJackpotPool: result.JackpotPool,
		RoundID:            req.RoundID,
	}
	for _, bet := range result.Bets {
		rsp.BetResults = append(rsp.BetResults, messages.BetResult{
			BetID:     bet.ID,
			DiceFace:  uint32(bet.DiceFace),
			BetAmount: bet.Amount,
			Won:       bet.Won,
			Payout:    bet.Payout,
			RoundID:   req.RoundID,
		})
	}

	return protocol.EncodeFrame(protocol.CmdReckonResultRsp, rsp.Encode())
}
