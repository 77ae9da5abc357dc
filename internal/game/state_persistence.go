package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/reflex-game/internal/models"
	"gorm.io/gorm"
)

// MemoryStatePersister 内存状态持久化（默认实现，也用于测试）
type MemoryStatePersister struct {
	mu     sync.RWMutex
	states map[string]*StateMachineData
}

// NewMemoryStatePersister 创建内存持久化器
func NewMemoryStatePersister() *MemoryStatePersister {
	return &MemoryStatePersister{
		states: make(map[string]*StateMachineData),
	}
}

// Save 保存状态
func (p *MemoryStatePersister) Save(ctx context.Context, sessionID string, state *StateMachineData) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 深拷贝数据
	stateCopy := *state
	p.states[sessionID] = &stateCopy
	return nil
}

// Load 加载状态
func (p *MemoryStatePersister) Load(ctx context.Context, sessionID string) (*StateMachineData, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	state, exists := p.states[sessionID]
	if !exists {
		return nil, fmt.Errorf("状态不存在: %s", sessionID)
	}

	// 返回深拷贝
	stateCopy := *state
	return &stateCopy, nil
}

// Delete 删除状态
func (p *MemoryStatePersister) Delete(ctx context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.states, sessionID)
	return nil
}

// DatabaseStatePersister 数据库状态持久化
// 默认数据源为内存sqlite，状态只在本次运行内有效
type DatabaseStatePersister struct {
	db *gorm.DB
}

// NewDatabaseStatePersister 创建数据库持久化器
func NewDatabaseStatePersister(db *gorm.DB) *DatabaseStatePersister {
	return &DatabaseStatePersister{
		db: db,
	}
}

// Save 保存状态到数据库
func (p *DatabaseStatePersister) Save(ctx context.Context, sessionID string, state *StateMachineData) error {
	// 将状态数据序列化为JSON
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("序列化状态失败: %w", err)
	}

	gameState := &models.GameState{
		SessionID:    sessionID,
		Round:        state.Round,
		CurrentPhase: string(state.CurrentPhase),
		StateData:    string(stateJSON),
		UpdatedAt:    time.Now(),
	}

	// 使用 Upsert 操作（存在则更新，不存在则插入）
	result := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Assign(models.GameState{
			Round:        gameState.Round,
			CurrentPhase: gameState.CurrentPhase,
			StateData:    gameState.StateData,
			UpdatedAt:    gameState.UpdatedAt,
		}).
		FirstOrCreate(&gameState)

	if result.Error != nil {
		return fmt.Errorf("保存状态失败: %w", result.Error)
	}

	return nil
}

// Load 从数据库加载状态
func (p *DatabaseStatePersister) Load(ctx context.Context, sessionID string) (*StateMachineData, error) {
	var gameState models.GameState

	result := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&gameState)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("游戏状态不存在: %s", sessionID)
		}
		return nil, fmt.Errorf("查询状态失败: %w", result.Error)
	}

	// 反序列化状态数据
	var state StateMachineData
	if err := json.Unmarshal([]byte(gameState.StateData), &state); err != nil {
		return nil, fmt.Errorf("反序列化状态失败: %w", err)
	}

	return &state, nil
}

// Delete 从数据库删除状态
func (p *DatabaseStatePersister) Delete(ctx context.Context, sessionID string) error {
	result := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.GameState{})

	if result.Error != nil {
		return fmt.Errorf("删除状态失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("状态不存在: %s", sessionID)
	}

	return nil
}
