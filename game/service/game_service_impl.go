package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/rustark/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given layout display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      snapshot(sess),
		GameConfig:     sess.Config,
	}
}

// snapshot copies the session state so callers can encode it after the lock is released
func snapshot(sess *Session) *engine.GameState {
	state := sess.Engine.GetState().Clone()
	enrichState(state)
	return state
}

// getSession looks a session up and touches its access time
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.WithError(err).WithField("session_id", sessionID).Warnf("failed to persist session after %s", after)
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, ErrConfigNotFound)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Session manager generates the 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.WithFields(log.Fields{
		"session_id": sess.ID,
		"config":     configID,
	}).Info("session created")

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.WithField("session_id", sessionID).Info("session deleted")
	return nil
}

// Move executes a single directional step for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := s.maybeReset(sess, reset)

	from := sess.Engine.GetPlayerPosition()
	target, known := engine.Target(from, direction)
	success := sess.Engine.MoveDirection(direction)

	result := s.moveResult(sess, direction, from, target, known, success)
	result.Events = append(events, result.Events...)

	s.persist(sessionID, "move")
	return result, nil
}

// MoveTo moves the player onto an explicit neighbouring cell
func (s *gameServiceImpl) MoveTo(ctx context.Context, sessionID string, target engine.Position, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := s.maybeReset(sess, reset)

	from := sess.Engine.GetPlayerPosition()
	success := sess.Engine.Move(target)

	label := fmt.Sprintf("to(%d,%d)", target.X, target.Y)
	result := s.moveResult(sess, label, from, target, true, success)
	result.Events = append(events, result.Events...)

	s.persist(sessionID, "move")
	return result, nil
}

func (s *gameServiceImpl) maybeReset(sess *Session, reset bool) []GameEvent {
	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}
	return events
}

func (s *gameServiceImpl) moveResult(sess *Session, action string, from, target engine.Position, known, success bool) *MoveResult {
	state := snapshot(sess)

	result := &MoveResult{
		Success:     success,
		GameState:   state,
		Message:     state.Message,
		WithinReach: withinReach(state),
	}

	entry := log.WithFields(log.Fields{
		"session_id": sess.ID,
		"action":     action,
		"from":       fmt.Sprintf("(%d,%d)", from.X, from.Y),
		"success":    success,
	})

	if success {
		to := sess.Engine.GetPlayerPosition()
		result.Events = []GameEvent{{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", action, to.X, to.Y),
			Timestamp: time.Now(),
			Position:  to,
		}}
		result.Step = &StepInfo{Idx: 1, Dir: action, From: from, To: to, Success: true}
		entry.WithField("to", fmt.Sprintf("(%d,%d)", to.X, to.Y)).Debug("move")
		return result
	}

	if known {
		result.AttemptedTo = attemptInfo(state, target)
	}
	entry.Debug("move blocked")
	return result
}

// BulkMove executes multiple directional moves, stopping at the first blocked one
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         s.maybeReset(sess, reset),
		Success:        true,
		StartPos:       sess.Engine.GetPlayerPosition(),
	}

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		from := sess.Engine.GetPlayerPosition()
		target, known := engine.Target(from, move)

		if !sess.Engine.MoveDirection(move) {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)

			st := sess.Engine.GetState()
			switch {
			case !known:
				result.StopReasonCode = "invalid_direction"
				result.StoppedReason = fmt.Sprintf("move %d: unknown direction %q", i+1, move)
			case !engine.InBounds(target):
				result.StopReasonCode = "blocked_boundary"
				result.AttemptedTo = attemptInfo(st, target)
			default:
				result.StopReasonCode = "blocked_occupied"
				result.AttemptedTo = attemptInfo(st, target)
			}
			break
		}

		to := sess.Engine.GetPlayerPosition()
		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{Idx: i + 1, Dir: move, From: from, To: to, Success: true})
		result.Events = append(result.Events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", move, to.X, to.Y),
			Timestamp: time.Now(),
			Position:  to,
		})
	}

	state := snapshot(sess)

	result.GameState = state
	result.EndPos = state.Player.Position
	result.Message = state.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	result.LocalView3x3 = state.LocalView3x3
	result.WithinReach = withinReach(state)

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"requested":  result.RequestedMoves,
		"executed":   result.MovesExecuted,
		"stop_code":  result.StopReasonCode,
	}).Debug("bulk move")

	s.persist(sessionID, "bulk moves")
	return result, nil
}

// Interact describes the neighbouring object shown as letter
func (s *gameServiceImpl) Interact(ctx context.Context, sessionID, letter string) (*InteractResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	interaction, ok := sess.Engine.Interact(letter)
	state := snapshot(sess)

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"letter":     letter,
		"success":    ok,
	}).Debug("interact")

	s.persist(sessionID, "interact")
	return &InteractResult{
		Success:     ok,
		Letter:      letter,
		Interaction: interaction,
		Message:     state.Message,
		GameState:   state,
	}, nil
}

// TakeFromCrate empties a neighbouring crate into the player's inventory
func (s *gameServiceImpl) TakeFromCrate(ctx context.Context, sessionID string) (*TakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	items, ok := sess.Engine.TakeFromCrate()
	if items == nil {
		items = []string{}
	}
	state := snapshot(sess)

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"items":      strings.Join(items, ","),
		"success":    ok,
	}).Debug("take from crate")

	s.persist(sessionID, "take")
	return &TakeResult{
		Success:   ok,
		Items:     items,
		Inventory: state.Player.Inventory,
		Message:   state.Message,
		GameState: state,
	}, nil
}

// Reset resets a game session to its initial layout
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	state := snapshot(sess)

	log.WithField("session_id", sessionID).Info("session reset")

	s.persist(sessionID, "reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return snapshot(sess), nil
}

// RenderMap returns the printable map followed by the situation line
func (s *gameServiceImpl) RenderMap(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return "", err
	}

	return sess.Engine.Render() + sess.Engine.DescribeSituation() + "\n", nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// ListConfigs returns available game layouts
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game layout
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game layout to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	// saving over the default layout must reach new sessions
	s.configs.RefreshCache()
	log.WithField("config", configName).Info("config saved")
	return nil
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// enrichState fills the computed views carried alongside the state
func enrichState(state *engine.GameState) {
	if state == nil {
		return
	}
	state.LocalView = state.GenerateLocalView()
	state.LocalView3x3 = state.BuildLocal3x3()
}

func withinReach(state *engine.GameState) []ReachableObject {
	var reach []ReachableObject
	for _, cell := range state.GenerateLocalView() {
		if cell.Kind == engine.Empty || cell.Kind == engine.Wall {
			continue
		}
		reach = append(reach, ReachableObject{Letter: cell.Letter, Position: engine.Position{X: cell.X, Y: cell.Y}})
	}
	return reach
}

func attemptInfo(state *engine.GameState, target engine.Position) *AttemptInfo {
	if !engine.InBounds(target) {
		return &AttemptInfo{X: target.X, Y: target.Y, Letter: engine.WallLetter, Kind: "boundary"}
	}
	cell := state.Grid.At(target)
	return &AttemptInfo{
		X:        target.X,
		Y:        target.Y,
		Letter:   cell.Letter(),
		Kind:     string(cell.Kind),
		Passable: cell.Kind == engine.Empty,
	}
}
