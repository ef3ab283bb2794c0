package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/rustark/game/engine"
	"github.com/wricardo/rustark/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, service.ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs   map[string]*engine.GameConfig
	refreshes int
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": engine.DefaultConfig(),
			"walled":  walledConfig(),
		},
	}
}

// walledConfig boxes the player in with generators except for one exit
func walledConfig() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:        "Walled",
		Description: "Player surrounded by generators",
		Layout: []string{
			"----------",
			"----------",
			"----------",
			"----------",
			"---ggg----",
			"---g!-----",
			"---ggg----",
			"----------",
			"----------",
			"----------",
		},
	}
	config.Messages.Welcome = "Find the way out."
	return config
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.configs[name] = config
	return nil
}

func (m *MockConfigManager) RefreshCache() {
	m.refreshes++
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func createSession(t *testing.T, svc service.GameService, configName string) *service.SessionInfo {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), configName)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return info
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService()

	info := createSession(t, svc, "")

	if info.ID == "" {
		t.Error("Expected session ID")
	}
	if info.ConfigName != "classic" {
		t.Errorf("Expected config_id 'classic', got %q", info.ConfigName)
	}
	if info.GameState.Player.Position != (engine.Position{X: 0, Y: 9}) {
		t.Errorf("Expected player at (0,9), got %+v", info.GameState.Player.Position)
	}
}

func TestCreateSession_UnknownConfig(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected error for unknown config")
	}
	if !errors.Is(err, service.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Available configs") {
		t.Errorf("Expected available configs in message, got %q", err.Error())
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a := createSession(t, svc, "classic")
	createSession(t, svc, "walled")

	sessions, _ := svc.ListSessions(ctx)
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	got, err := svc.GetSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ConfigName != "classic" {
		t.Errorf("Expected config_id 'classic', got %q", got.ConfigName)
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, a.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestMove(t *testing.T) {
	svc, sessions := newTestService()
	info := createSession(t, svc, "classic")

	result, err := svc.Move(context.Background(), info.ID, "right", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("Expected move to succeed: %s", result.Message)
	}
	if result.Step == nil || result.Step.To != (engine.Position{X: 1, Y: 9}) {
		t.Errorf("Unexpected step: %+v", result.Step)
	}
	if len(result.Events) != 1 || result.Events[0].Type != "move" {
		t.Errorf("Expected one move event, got %+v", result.Events)
	}
	if len(result.GameState.LocalView3x3) != 3 {
		t.Errorf("Expected 3x3 view on state, got %v", result.GameState.LocalView3x3)
	}
	if sessions.saves == 0 {
		t.Error("Expected session to be saved after move")
	}

	// From (1,9) both the crate and the hint are in reach
	letters := ""
	for _, r := range result.WithinReach {
		letters += r.Letter
	}
	if letters != "hc" && letters != "ch" {
		t.Errorf("Expected hint and crate in reach, got %q", letters)
	}
}

func TestMove_Blocked(t *testing.T) {
	tests := []struct {
		direction string
		kind      string
		letter    string
	}{
		{"up", "hint", "h"},
		{"up-right", "crate", "c"},
		{"left", "boundary", "#"},
		{"down", "boundary", "#"},
	}

	for _, test := range tests {
		t.Run(test.direction, func(t *testing.T) {
			svc, _ := newTestService()
			info := createSession(t, svc, "classic")

			result, err := svc.Move(context.Background(), info.ID, test.direction, false)
			if err != nil {
				t.Fatalf("Move failed: %v", err)
			}

			if result.Success {
				t.Fatal("Expected move to be blocked")
			}
			if result.AttemptedTo == nil {
				t.Fatal("Expected attempted target")
			}
			if result.AttemptedTo.Kind != test.kind || result.AttemptedTo.Letter != test.letter {
				t.Errorf("Expected %s/%s, got %+v", test.kind, test.letter, result.AttemptedTo)
			}
			if result.AttemptedTo.Passable {
				t.Error("Blocked target should not be passable")
			}
		})
	}
}

func TestMove_UnknownDirection(t *testing.T) {
	svc, _ := newTestService()
	info := createSession(t, svc, "classic")

	result, err := svc.Move(context.Background(), info.ID, "sideways", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Success || result.AttemptedTo != nil {
		t.Errorf("Expected failure without attempted target, got %+v", result)
	}
}

func TestMove_WithReset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "classic")

	svc.Move(ctx, info.ID, "right", false)
	svc.Move(ctx, info.ID, "right", false)

	result, err := svc.Move(ctx, info.ID, "right", true)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Events[0].Type != "reset" {
		t.Errorf("Expected reset event first, got %+v", result.Events)
	}
	if pos := result.GameState.Player.Position; pos != (engine.Position{X: 1, Y: 9}) {
		t.Errorf("Expected (1,9) after reset and one move, got %+v", pos)
	}
}

func TestMoveTo(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "classic")

	result, err := svc.MoveTo(ctx, info.ID, engine.Position{X: 5, Y: 5}, false)
	if err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	if result.Success {
		t.Error("Expected non-adjacent move to fail")
	}

	result, _ = svc.MoveTo(ctx, info.ID, engine.Position{X: 1, Y: 9}, false)
	if !result.Success {
		t.Fatalf("Expected adjacent move to succeed: %s", result.Message)
	}
	if result.Step.Dir != "to(1,9)" {
		t.Errorf("Expected step label 'to(1,9)', got %q", result.Step.Dir)
	}
}

func TestBulkMove(t *testing.T) {
	svc, _ := newTestService()
	info := createSession(t, svc, "classic")

	result, err := svc.BulkMove(context.Background(), info.ID, []string{"right", "up-right", "up", "up"}, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}

	if !result.Success || result.MovesExecuted != 4 {
		t.Fatalf("Expected 4 executed moves, got %d (%s)", result.MovesExecuted, result.StoppedReason)
	}
	if result.StartPos != (engine.Position{X: 0, Y: 9}) || result.EndPos != (engine.Position{X: 2, Y: 6}) {
		t.Errorf("Unexpected start/end: %+v -> %+v", result.StartPos, result.EndPos)
	}
	if len(result.Steps) != 4 {
		t.Errorf("Expected 4 steps, got %d", len(result.Steps))
	}
	if len(result.PossibleMoves) == 0 {
		t.Error("Expected possible moves")
	}
}

func TestBulkMove_StopCodes(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		moves    []string
		executed int
		code     string
	}{
		{"occupied", "classic", []string{"right", "up-left", "right"}, 1, "blocked_occupied"},
		{"boundary", "classic", []string{"right", "down"}, 1, "blocked_boundary"},
		{"invalid", "classic", []string{"right", "jump"}, 1, "invalid_direction"},
		{"walled in", "walled", []string{"left"}, 0, "blocked_occupied"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, _ := newTestService()
			info := createSession(t, svc, test.config)

			result, err := svc.BulkMove(context.Background(), info.ID, test.moves, false)
			if err != nil {
				t.Fatalf("BulkMove failed: %v", err)
			}

			if result.Success {
				t.Fatal("Expected bulk move to stop")
			}
			if result.MovesExecuted != test.executed {
				t.Errorf("Expected %d executed, got %d", test.executed, result.MovesExecuted)
			}
			if result.StopReasonCode != test.code {
				t.Errorf("Expected code %q, got %q", test.code, result.StopReasonCode)
			}
			if result.StoppedOnMove != test.executed+1 {
				t.Errorf("Expected stop on move %d, got %d", test.executed+1, result.StoppedOnMove)
			}
		})
	}
}

func TestBulkMove_Truncated(t *testing.T) {
	svc, _ := newTestService()
	info := createSession(t, svc, "walled")

	moves := make([]string, engine.MaxBulkMoves+10)
	for i := range moves {
		if i%2 == 0 {
			moves[i] = "right"
		} else {
			moves[i] = "left"
		}
	}

	result, err := svc.BulkMove(context.Background(), info.ID, moves, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkMoves {
		t.Errorf("Expected truncation at %d, got %+v", engine.MaxBulkMoves, result)
	}
	if result.MovesExecuted != engine.MaxBulkMoves {
		t.Errorf("Expected %d moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
	}
	if result.RequestedMoves != engine.MaxBulkMoves+10 {
		t.Errorf("Expected requested %d, got %d", engine.MaxBulkMoves+10, result.RequestedMoves)
	}
}

func TestInteract(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "classic")

	result, err := svc.Interact(ctx, info.ID, "c")
	if err != nil {
		t.Fatalf("Interact failed: %v", err)
	}
	if !result.Success || result.Interaction.Description != "crate" {
		t.Errorf("Expected crate, got %+v", result)
	}

	result, _ = svc.Interact(ctx, info.ID, "g")
	if result.Success || result.Interaction != nil {
		t.Errorf("Generator is out of reach, got %+v", result)
	}
}

func TestTakeFromCrate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "classic")

	result, err := svc.TakeFromCrate(ctx, info.ID)
	if err != nil {
		t.Fatalf("TakeFromCrate failed: %v", err)
	}
	if !result.Success || len(result.Items) != 1 || result.Items[0] != "wire" {
		t.Errorf("Expected wire, got %+v", result)
	}
	if len(result.Inventory) != 1 {
		t.Errorf("Expected inventory of 1, got %v", result.Inventory)
	}

	svc.BulkMove(ctx, info.ID, []string{"right", "right", "right"}, false)
	result, _ = svc.TakeFromCrate(ctx, info.ID)
	if result.Success || result.Items == nil {
		t.Errorf("Expected failure with empty item list, got %+v", result)
	}
}

func TestReset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "classic")

	svc.Move(ctx, info.ID, "right", false)
	svc.TakeFromCrate(ctx, info.ID)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Player.Position != (engine.Position{X: 0, Y: 9}) || len(state.Player.Inventory) != 0 {
		t.Errorf("Expected fresh player, got %+v", state.Player)
	}
	if state.TotalMoves != 1 {
		t.Errorf("Expected cumulative move count 1, got %d", state.TotalMoves)
	}
}

func TestRenderMap(t *testing.T) {
	svc, _ := newTestService()
	info := createSession(t, svc, "classic")

	text, err := svc.RenderMap(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("RenderMap failed: %v", err)
	}
	if !strings.HasPrefix(text, "[ -  -  -  -  -  -  -  -  -  - ] 0\n") {
		t.Errorf("Unexpected first row: %q", strings.SplitN(text, "\n", 2)[0])
	}
	if !strings.Contains(text, "You are at (0,9).") {
		t.Errorf("Expected situation line, got %q", text)
	}
}

func TestGetMoveHistory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "walled")

	for i := 0; i < 5; i++ {
		svc.Move(ctx, info.ID, "right", false)
		svc.Move(ctx, info.ID, "left", false)
	}

	history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 1, Limit: 4})
	if err != nil {
		t.Fatalf("GetMoveHistory failed: %v", err)
	}

	if history.TotalMoves != 10 || history.TotalPages != 3 {
		t.Errorf("Expected 10 moves over 3 pages, got %d over %d", history.TotalMoves, history.TotalPages)
	}
	if len(history.Moves) != 4 || !history.HasNext || history.HasPrevious {
		t.Errorf("Unexpected first page: %+v", history)
	}
	if history.Moves[0].MoveNumber != 10 {
		t.Errorf("Expected most recent move first, got %d", history.Moves[0].MoveNumber)
	}

	asc, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 3, Limit: 4, Order: "asc"})
	if len(asc.Moves) != 2 || asc.Moves[0].MoveNumber != 9 || asc.HasNext {
		t.Errorf("Unexpected last ascending page: %+v", asc)
	}
}

func TestOperationsOnMissingSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Move(ctx, "zzzz", "up", false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Move: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Interact(ctx, "zzzz", "h"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Interact: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.RenderMap(ctx, "zzzz"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("RenderMap: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.GetMoveHistory(ctx, "zzzz", service.HistoryOptions{}); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("GetMoveHistory: expected ErrSessionNotFound, got %v", err)
	}
}

// brokenStorageSessions fails lookups with a storage error instead of the sentinel
type brokenStorageSessions struct {
	*MockSessionManager
}

func (b brokenStorageSessions) Get(id string) (*service.Session, error) {
	return nil, errors.New("disk read failed")
}

func TestLookupErrorsWrapSessionNotFound(t *testing.T) {
	svc := service.NewGameService(brokenStorageSessions{NewMockSessionManager()}, NewMockConfigManager())
	ctx := context.Background()

	_, err := svc.GetMoveHistory(ctx, "abcd", service.HistoryOptions{})
	if !errors.Is(err, service.ErrSessionNotFound) || !strings.Contains(err.Error(), "disk read failed") {
		t.Errorf("GetMoveHistory: expected wrapped ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.GetGameState(ctx, "abcd"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("GetGameState: expected wrapped ErrSessionNotFound, got %v", err)
	}
}

func TestGetMoveHistoryTouchesSession(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "")

	stale := time.Now().Add(-time.Hour)
	sessions.sessions[info.ID].LastAccessedAt = stale

	if _, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{}); err != nil {
		t.Fatalf("GetMoveHistory failed: %v", err)
	}
	if !sessions.sessions[info.ID].LastAccessedAt.After(stale) {
		t.Error("Expected reading history to refresh the access time")
	}
}

func TestResultsAreSnapshots(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info := createSession(t, svc, "")

	moved, err := svc.Move(ctx, info.ID, "right", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := svc.TakeFromCrate(ctx, info.ID); err != nil {
		t.Fatalf("TakeFromCrate failed: %v", err)
	}
	if _, err := svc.Move(ctx, info.ID, "right", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if moved.GameState.Player.Position != (engine.Position{X: 1, Y: 9}) {
		t.Errorf("Earlier result changed with later moves: %+v", moved.GameState.Player.Position)
	}
	if len(moved.GameState.Player.Inventory) != 0 {
		t.Errorf("Earlier result shares the inventory: %v", moved.GameState.Player.Inventory)
	}
	if crate := moved.GameState.Grid.At(engine.Position{X: 1, Y: 8}).Crate; crate == nil || len(crate.Contents) != 1 {
		t.Errorf("Earlier result shares the crate: %+v", crate)
	}

	moved.GameState.Player.Inventory = append(moved.GameState.Player.Inventory, "forged")
	current, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if len(current.Player.Inventory) != 1 || current.Player.Inventory[0] != "wire" {
		t.Errorf("Editing a result leaked into the session: %v", current.Player.Inventory)
	}
}

func TestSaveConfig(t *testing.T) {
	configs := NewMockConfigManager()
	svc := service.NewGameService(NewMockSessionManager(), configs)
	ctx := context.Background()

	bad := engine.DefaultConfig()
	bad.Name = ""
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	if err := svc.SaveConfig(ctx, "copy", engine.DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := svc.LoadConfig(ctx, "copy"); err != nil {
		t.Errorf("Expected saved config to load: %v", err)
	}
	if configs.refreshes != 1 {
		t.Errorf("Expected one cache refresh after the successful save, got %d", configs.refreshes)
	}
}
